package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/plan"
	"github.com/Cventura12/Clarify-AI-sub000/internal/interpret"
)

// PlanService creates and re-creates plans from tasks.
type PlanService interface {
	CreatePlan(ctx context.Context, taskID int64) (*entity.Plan, []*entity.Step, error)
	GetPlan(ctx context.Context, id int64) (*entity.Plan, []*entity.Step, error)
	GetPlanForTask(ctx context.Context, taskID int64) (*entity.Plan, []*entity.Step, error)
}

type planServiceImpl struct {
	producer  port.Producer
	taskRepo  port.TaskRepository
	planRepo  port.PlanRepository
	stepRepo  port.StepRepository
	txManager port.TransactionManager
	logger    Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	producer port.Producer,
	taskRepo port.TaskRepository,
	planRepo port.PlanRepository,
	stepRepo port.StepRepository,
	txManager port.TransactionManager,
	logger Logger,
) PlanService {
	return &planServiceImpl{
		producer:  producer,
		taskRepo:  taskRepo,
		planRepo:  planRepo,
		stepRepo:  stepRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreatePlan builds a plan for a task, replacing any existing one.
// Re-planning destroys and recreates every child step in one transaction:
// plans are regenerable, execution history is not. Old execution logs keep
// referencing the destroyed steps by id, so history implicitly resets.
func (s *planServiceImpl) CreatePlan(ctx context.Context, taskID int64) (*entity.Plan, []*entity.Step, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, NotFoundError("task not found")
	}

	outline, usedFallback := s.outline(ctx, task)

	newPlan := &entity.Plan{
		TaskID:            taskID,
		TotalSteps:        outline.DeclaredTotal,
		Effort:            outline.Effort,
		Deadline:          outline.Deadline,
		DelegationSummary: outline.DelegationSummary(),
		NextAction:        outline.NextAction,
		RiskFlags:         outline.RiskFlags,
		Confidence:        interpret.ScorePlan(&outline),
		Fallback:          usedFallback,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	steps := make([]*entity.Step, 0, len(outline.Steps))

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.planRepo.GetByTaskID(txCtx, taskID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.stepRepo.DeleteByPlanID(txCtx, existing.ID); err != nil {
				return fmt.Errorf("delete old steps: %w", err)
			}
			if err := s.planRepo.Delete(txCtx, existing.ID); err != nil {
				return fmt.Errorf("delete old plan: %w", err)
			}
		}

		if err := s.planRepo.Create(txCtx, newPlan); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		for _, so := range outline.Steps {
			step := &entity.Step{
				PlanID:        newPlan.ID,
				Number:        so.Number,
				Action:        so.Action,
				Detail:        so.Detail,
				Dependencies:  so.Dependencies,
				Effort:        so.Effort,
				Delegation:    so.Delegation,
				Status:        so.Status,
				SuggestedDate: so.SuggestedDate,
				CreatedAt:     time.Now(),
				UpdatedAt:     time.Now(),
			}
			if err := s.stepRepo.Create(txCtx, step); err != nil {
				return fmt.Errorf("create step %d: %w", so.Number, err)
			}
			steps = append(steps, step)
		}

		if task.Lifecycle == entity.TaskInterpreted {
			if err := s.taskRepo.UpdateLifecycle(txCtx, taskID, entity.TaskPlanned); err != nil {
				return fmt.Errorf("update task lifecycle: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist plan", "error", err, "task_id", taskID)
		return nil, nil, err
	}

	s.logger.Info("Plan created",
		"plan_id", newPlan.ID,
		"task_id", taskID,
		"steps", len(steps),
		"confidence", newPlan.Confidence,
		"fallback", usedFallback)

	return newPlan, steps, nil
}

// outline calls the producer and normalizes its planning output, falling
// back to the deterministic two-step plan on error or an outline with no
// usable steps.
func (s *planServiceImpl) outline(ctx context.Context, task *entity.Task) (interpret.PlanOutline, bool) {
	raw, err := s.producer.PlanTask(ctx, task)
	if err != nil {
		s.logger.Error("Producer planning failed, using fallback", "error", err, "task_id", task.ID)
		return interpret.FallbackPlan(), true
	}

	outline := interpret.NormalizePlan(raw)
	if len(outline.Steps) == 0 {
		s.logger.Info("Producer plan degenerate, using fallback", "task_id", task.ID)
		return interpret.FallbackPlan(), true
	}
	return outline, false
}

// GetPlan retrieves a plan with its steps in step-number order
func (s *planServiceImpl) GetPlan(ctx context.Context, id int64) (*entity.Plan, []*entity.Step, error) {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, NotFoundError("plan not found")
	}
	return s.withSteps(ctx, p)
}

// GetPlanForTask retrieves the plan attached to a task
func (s *planServiceImpl) GetPlanForTask(ctx context.Context, taskID int64) (*entity.Plan, []*entity.Step, error) {
	p, err := s.planRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, NotFoundError("no plan for task")
	}
	return s.withSteps(ctx, p)
}

func (s *planServiceImpl) withSteps(ctx context.Context, p *entity.Plan) (*entity.Plan, []*entity.Step, error) {
	steps, err := s.stepRepo.GetByPlanID(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	plan.SortByNumber(steps)
	return p, steps, nil
}
