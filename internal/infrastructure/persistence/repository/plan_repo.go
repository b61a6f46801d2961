package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// PlanRepository implements port.PlanRepository
type PlanRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB, logger *zap.Logger) port.PlanRepository {
	return &PlanRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new plan. The unique key on task_id enforces one plan per
// task at the storage level.
func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	delegationSummary, err := marshalJSON(plan.DelegationSummary)
	if err != nil {
		return err
	}
	riskFlags, err := marshalJSON(plan.RiskFlags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO plans (
			task_id, total_steps, effort, deadline, delegation_summary,
			next_action, risk_flags, confidence, fallback, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		plan.TaskID,
		plan.TotalSteps,
		plan.Effort,
		plan.Deadline,
		delegationSummary,
		plan.NextAction,
		riskFlags,
		plan.Confidence,
		plan.Fallback,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create plan", zap.Error(err))
		return fmt.Errorf("failed to create plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	plan.ID = id
	return nil
}

const planColumns = `
	id, task_id, total_steps, effort, deadline, delegation_summary,
	next_action, risk_flags, confidence, fallback, created_at, updated_at
`

// GetByID retrieves a plan by ID. Returns nil without error when absent.
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	plan, err := scanPlan(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get plan by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// GetByTaskID retrieves the plan attached to a task
func (r *PlanRepository) GetByTaskID(ctx context.Context, taskID int64) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE task_id = ?`

	plan, err := scanPlan(getExecutor(ctx, r.db).QueryRowContext(ctx, query, taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get plan by task ID", zap.Int64("task_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// Delete removes a plan during re-planning
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete plan", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func scanPlan(row rowScanner) (*entity.Plan, error) {
	var plan entity.Plan
	var deadline sql.NullTime
	var nextAction sql.NullString
	var delegationSummary, riskFlags string

	err := row.Scan(
		&plan.ID,
		&plan.TaskID,
		&plan.TotalSteps,
		&plan.Effort,
		&deadline,
		&delegationSummary,
		&nextAction,
		&riskFlags,
		&plan.Confidence,
		&plan.Fallback,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		plan.Deadline = &deadline.Time
	}
	plan.NextAction = nextAction.String
	if err := unmarshalJSON(delegationSummary, &plan.DelegationSummary); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(riskFlags, &plan.RiskFlags); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Verify interface compliance
var _ port.PlanRepository = (*PlanRepository)(nil)
