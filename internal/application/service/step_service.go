package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
)

// StepService handles the user-driven step transitions: authorization and
// rejection. Every transition writes exactly one execution-log entry with
// actor "user".
type StepService interface {
	Authorize(ctx context.Context, stepID int64) (*entity.Step, error)
	Reject(ctx context.Context, stepID int64) (*entity.Step, error)
	GetStep(ctx context.Context, stepID int64) (*entity.Step, error)
}

type stepServiceImpl struct {
	stepRepo port.StepRepository
	logRepo  port.ExecutionLogRepository
	logger   Logger
}

// NewStepService creates a new StepService
func NewStepService(
	stepRepo port.StepRepository,
	logRepo port.ExecutionLogRepository,
	logger Logger,
) StepService {
	return &stepServiceImpl{
		stepRepo: stepRepo,
		logRepo:  logRepo,
		logger:   logger,
	}
}

// Authorize marks a step as approved for execution. Re-authorizing a done
// step is an idempotent no-op that returns the step unchanged.
func (s *stepServiceImpl) Authorize(ctx context.Context, stepID int64) (*entity.Step, error) {
	step, err := s.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	current := lifecycle.State(step.Status)
	if current == lifecycle.StateDone {
		return step, nil
	}
	if current == lifecycle.StateAuthorized {
		return step, nil
	}

	machine := lifecycle.NewStepMachine(current)
	if err := machine.Fire(ctx, lifecycle.TriggerAuthorize); err != nil {
		return nil, InvalidStateError(fmt.Sprintf("step in status %q cannot be authorized", step.Status))
	}

	if err := s.stepRepo.UpdateStatus(ctx, stepID, machine.State().String()); err != nil {
		return nil, err
	}
	step.Status = machine.State().String()

	s.appendLog(ctx, stepID, entity.LogStepAuthorized, step.Status, entity.ActorUser,
		fmt.Sprintf(`{"action": %q}`, step.Action))

	s.logger.Info("Step authorized", "step_id", stepID)
	return step, nil
}

// Reject permanently skips a step. Completed steps cannot be rejected; the
// step's status and outcome are left untouched on refusal.
func (s *stepServiceImpl) Reject(ctx context.Context, stepID int64) (*entity.Step, error) {
	step, err := s.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	current := lifecycle.State(step.Status)
	if current == lifecycle.StateDone {
		return nil, InvalidStateError("completed steps cannot be rejected")
	}

	machine := lifecycle.NewStepMachine(current)
	if err := machine.Fire(ctx, lifecycle.TriggerReject); err != nil {
		return nil, InvalidStateError(fmt.Sprintf("step in status %q cannot be rejected", step.Status))
	}

	if err := s.stepRepo.UpdateStatus(ctx, stepID, machine.State().String()); err != nil {
		return nil, err
	}
	step.Status = machine.State().String()

	s.appendLog(ctx, stepID, entity.LogStepRejected, step.Status, entity.ActorUser,
		fmt.Sprintf(`{"action": %q}`, step.Action))

	s.logger.Info("Step rejected", "step_id", stepID)
	return step, nil
}

// GetStep retrieves a step by ID
func (s *stepServiceImpl) GetStep(ctx context.Context, stepID int64) (*entity.Step, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, NotFoundError("step not found")
	}
	return step, nil
}

// appendLog writes an audit entry; the audit trail is best-effort relative to
// the transition itself, but failures are loudly logged.
func (s *stepServiceImpl) appendLog(ctx context.Context, stepID int64, action, status, actor, detail string) {
	entry := &entity.ExecutionLog{
		StepID:    stepID,
		Action:    action,
		Status:    status,
		Actor:     actor,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write execution log", "error", err, "step_id", stepID, "action", action)
	}
}
