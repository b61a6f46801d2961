package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// PlanRunRepository implements port.PlanRunRepository
type PlanRunRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPlanRunRepository creates a new plan run repository
func NewPlanRunRepository(db *sql.DB, logger *zap.Logger) port.PlanRunRepository {
	return &PlanRunRepository{
		db:     db,
		logger: logger,
	}
}

// Create records the counters of one completed sweep
func (r *PlanRunRepository) Create(ctx context.Context, run *entity.PlanRun) error {
	query := `
		INSERT INTO plan_runs (
			plan_id, executed, skipped_unauthorized, skipped_dependencies,
			total_steps, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		run.PlanID,
		run.Executed,
		run.SkippedUnauthorized,
		run.SkippedDependencies,
		run.TotalSteps,
		run.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create plan run", zap.Error(err))
		return fmt.Errorf("failed to create plan run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// GetByPlanID retrieves the sweep history of a plan, newest first
func (r *PlanRunRepository) GetByPlanID(ctx context.Context, planID int64) ([]*entity.PlanRun, error) {
	query := `
		SELECT id, plan_id, executed, skipped_unauthorized, skipped_dependencies,
			total_steps, created_at
		FROM plan_runs
		WHERE plan_id = ?
		ORDER BY id DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, planID)
	if err != nil {
		r.logger.Error("Failed to get plan runs", zap.Int64("plan_id", planID), zap.Error(err))
		return nil, fmt.Errorf("failed to get plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.PlanRun
	for rows.Next() {
		var run entity.PlanRun
		err := rows.Scan(
			&run.ID,
			&run.PlanID,
			&run.Executed,
			&run.SkippedUnauthorized,
			&run.SkippedDependencies,
			&run.TotalSteps,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan run: %w", err)
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// Verify interface compliance
var _ port.PlanRunRepository = (*PlanRunRepository)(nil)
