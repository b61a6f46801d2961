package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
)

// StepRepository implements port.StepRepository
type StepRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStepRepository creates a new step repository
func NewStepRepository(db *sql.DB, logger *zap.Logger) port.StepRepository {
	return &StepRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new plan step
func (r *StepRepository) Create(ctx context.Context, step *entity.Step) error {
	dependencies, err := marshalJSON(step.Dependencies)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO steps (
			plan_id, number, action, detail, dependencies, effort, delegation,
			status, suggested_date, outcome, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		step.PlanID,
		step.Number,
		step.Action,
		step.Detail,
		dependencies,
		step.Effort,
		step.Delegation,
		step.Status,
		step.SuggestedDate,
		step.Outcome,
		step.CompletedAt,
		step.CreatedAt,
		step.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create step", zap.Error(err))
		return fmt.Errorf("failed to create step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	step.ID = id
	return nil
}

const stepColumns = `
	id, plan_id, number, action, detail, dependencies, effort, delegation,
	status, suggested_date, outcome, completed_at, created_at, updated_at
`

// GetByID retrieves a step by ID. Returns nil without error when absent.
func (r *StepRepository) GetByID(ctx context.Context, id int64) (*entity.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE id = ?`

	step, err := scanStep(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get step by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return step, nil
}

// GetByPlanID retrieves all steps of a plan in step-number order
func (r *StepRepository) GetByPlanID(ctx context.Context, planID int64) ([]*entity.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE plan_id = ? ORDER BY number ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, planID)
	if err != nil {
		r.logger.Error("Failed to get steps by plan ID", zap.Int64("plan_id", planID), zap.Error(err))
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}
	defer rows.Close()

	var steps []*entity.Step
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, rows.Err()
}

// UpdateStatus sets a step's status
func (r *StepRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE steps SET status = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update step status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update step status: %w", err)
	}
	return nil
}

// MarkDone flips a step to done with its outcome, guarded by the expected
// prior status. The guard in the WHERE clause is what makes concurrent
// execution attempts safe: only one caller observes an affected row.
func (r *StepRepository) MarkDone(ctx context.Context, id int64, outcome string, completedAt time.Time) (bool, error) {
	query := `
		UPDATE steps
		SET status = ?, outcome = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		lifecycle.StateDone.String(),
		outcome,
		completedAt,
		time.Now(),
		id,
		lifecycle.StateAuthorized.String(),
	)
	if err != nil {
		r.logger.Error("Failed to mark step done", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to mark step done: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

// DeleteByPlanID removes all steps of a plan during re-planning
func (r *StepRepository) DeleteByPlanID(ctx context.Context, planID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM steps WHERE plan_id = ?`, planID)
	if err != nil {
		r.logger.Error("Failed to delete steps", zap.Int64("plan_id", planID), zap.Error(err))
		return fmt.Errorf("failed to delete steps: %w", err)
	}
	return nil
}

func scanStep(row rowScanner) (*entity.Step, error) {
	var step entity.Step
	var detail, outcome sql.NullString
	var suggestedDate, completedAt sql.NullTime
	var dependencies string

	err := row.Scan(
		&step.ID,
		&step.PlanID,
		&step.Number,
		&step.Action,
		&detail,
		&dependencies,
		&step.Effort,
		&step.Delegation,
		&step.Status,
		&suggestedDate,
		&outcome,
		&completedAt,
		&step.CreatedAt,
		&step.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	step.Detail = detail.String
	step.Outcome = outcome.String
	if suggestedDate.Valid {
		step.SuggestedDate = &suggestedDate.Time
	}
	if completedAt.Valid {
		step.CompletedAt = &completedAt.Time
	}
	if err := unmarshalJSON(dependencies, &step.Dependencies); err != nil {
		return nil, err
	}

	return &step, nil
}

// Verify interface compliance
var _ port.StepRepository = (*StepRepository)(nil)
