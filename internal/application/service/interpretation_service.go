package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/interpret"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// InterpretationService turns raw request text into persisted tasks.
type InterpretationService interface {
	CreateRequest(ctx context.Context, userID, rawInput string) (*entity.Request, []*entity.Task, error)
	GetRequest(ctx context.Context, id int64) (*entity.Request, []*entity.Task, error)
	ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, error)
	GetTask(ctx context.Context, id int64) (*entity.Task, error)
	ListTasks(ctx context.Context, limit, offset int) ([]*entity.Task, error)
	AbandonTask(ctx context.Context, id int64) (*entity.Task, error)
}

type interpretationServiceImpl struct {
	producer    port.Producer
	requestRepo port.RequestRepository
	taskRepo    port.TaskRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewInterpretationService creates a new InterpretationService
func NewInterpretationService(
	producer port.Producer,
	requestRepo port.RequestRepository,
	taskRepo port.TaskRepository,
	txManager port.TransactionManager,
	logger Logger,
) InterpretationService {
	return &interpretationServiceImpl{
		producer:    producer,
		requestRepo: requestRepo,
		taskRepo:    taskRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateRequest interprets raw input through the producer and persists the
// resulting tasks. Producer failure or degenerate output is absorbed by the
// fallback generator; this operation never surfaces a raw producer error.
func (s *interpretationServiceImpl) CreateRequest(ctx context.Context, userID, rawInput string) (*entity.Request, []*entity.Task, error) {
	interpretation, usedFallback := s.interpret(ctx, rawInput)

	request := &entity.Request{
		UserID:     userID,
		RawInput:   rawInput,
		Summary:    interpretation.Summary,
		Confidence: interpret.ScoreInterpretation(interpretation.Tasks),
		Fallback:   usedFallback,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	tasks := make([]*entity.Task, 0, len(interpretation.Tasks))

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		for i := range interpretation.Tasks {
			task := interpretation.Tasks[i]
			task.RequestID = request.ID
			task.CreatedAt = time.Now()
			task.UpdatedAt = time.Now()
			if err := s.taskRepo.Create(txCtx, &task); err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			tasks = append(tasks, &task)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist interpretation", "error", err, "user_id", userID)
		return nil, nil, err
	}

	s.logger.Info("Request interpreted",
		"request_id", request.ID,
		"tasks", len(tasks),
		"confidence", request.Confidence,
		"fallback", usedFallback)

	return request, tasks, nil
}

// interpret calls the producer and normalizes its output, substituting the
// deterministic fallback when the producer errors or returns output that is
// empty or echoes the fallback's own generic marker.
func (s *interpretationServiceImpl) interpret(ctx context.Context, rawInput string) (interpret.Interpretation, bool) {
	raw, err := s.producer.Interpret(ctx, rawInput)
	if err != nil {
		s.logger.Error("Producer interpretation failed, using fallback", "error", err)
		return interpret.FallbackInterpretation(rawInput), true
	}

	interpretation := interpret.Normalize(raw, rawInput)
	if degenerate(interpretation) {
		s.logger.Info("Producer output degenerate, using fallback", "tasks", len(interpretation.Tasks))
		return interpret.FallbackInterpretation(rawInput), true
	}

	return interpretation, false
}

// degenerate reports output that carries no real interpretation: no tasks at
// all, or every task titled with the generic clarification marker.
func degenerate(interpretation interpret.Interpretation) bool {
	if len(interpretation.Tasks) == 0 {
		return true
	}
	for _, task := range interpretation.Tasks {
		if !interpret.IsGenericTitle(task.Title) {
			return false
		}
	}
	return true
}

// GetRequest retrieves a request and its tasks
func (s *interpretationServiceImpl) GetRequest(ctx context.Context, id int64) (*entity.Request, []*entity.Task, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if request == nil {
		return nil, nil, NotFoundError("request not found")
	}

	tasks, err := s.taskRepo.GetByRequestID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return request, tasks, nil
}

// ListRequests lists recent requests
func (s *interpretationServiceImpl) ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	return s.requestRepo.List(ctx, limit, offset)
}

// GetTask retrieves a task by ID
func (s *interpretationServiceImpl) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, NotFoundError("task not found")
	}
	return task, nil
}

// ListTasks lists recent tasks
func (s *interpretationServiceImpl) ListTasks(ctx context.Context, limit, offset int) ([]*entity.Task, error) {
	return s.taskRepo.List(ctx, limit, offset)
}

// AbandonTask marks a task abandoned. Terminal task states are left alone.
func (s *interpretationServiceImpl) AbandonTask(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Lifecycle == entity.TaskCompleted || task.Lifecycle == entity.TaskAbandoned {
		return nil, InvalidStateError(fmt.Sprintf("task is already %s", task.Lifecycle))
	}

	if err := s.taskRepo.UpdateLifecycle(ctx, id, entity.TaskAbandoned); err != nil {
		return nil, err
	}
	task.Lifecycle = entity.TaskAbandoned

	s.logger.Info("Task abandoned", "task_id", id)
	return task, nil
}
