package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// ExecutionLogRepository implements port.ExecutionLogRepository. The table is
// append-only; there is no update or delete path.
type ExecutionLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExecutionLogRepository creates a new execution log repository
func NewExecutionLogRepository(db *sql.DB, logger *zap.Logger) port.ExecutionLogRepository {
	return &ExecutionLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one audit entry
func (r *ExecutionLogRepository) Create(ctx context.Context, log *entity.ExecutionLog) error {
	query := `
		INSERT INTO execution_logs (step_id, action, status, actor, detail, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		log.StepID,
		log.Action,
		log.Status,
		log.Actor,
		log.Detail,
		log.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create execution log", zap.Error(err))
		return fmt.Errorf("failed to create execution log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// GetByStepID retrieves the audit trail of one step in insertion order
func (r *ExecutionLogRepository) GetByStepID(ctx context.Context, stepID int64) ([]*entity.ExecutionLog, error) {
	query := `
		SELECT id, step_id, action, status, actor, detail, timestamp
		FROM execution_logs
		WHERE step_id = ?
		ORDER BY id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, stepID)
	if err != nil {
		r.logger.Error("Failed to get logs by step ID", zap.Int64("step_id", stepID), zap.Error(err))
		return nil, fmt.Errorf("failed to get execution logs: %w", err)
	}
	defer rows.Close()

	return collectLogs(rows)
}

// GetByPlanID retrieves the audit trail across the plan's current steps.
// Entries for steps destroyed by re-planning stay in the table but no longer
// resolve through the join; per-step reads still return them.
func (r *ExecutionLogRepository) GetByPlanID(ctx context.Context, planID int64) ([]*entity.ExecutionLog, error) {
	query := `
		SELECT l.id, l.step_id, l.action, l.status, l.actor, l.detail, l.timestamp
		FROM execution_logs l
		JOIN steps s ON s.id = l.step_id
		WHERE s.plan_id = ?
		ORDER BY l.id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, planID)
	if err != nil {
		r.logger.Error("Failed to get logs by plan ID", zap.Int64("plan_id", planID), zap.Error(err))
		return nil, fmt.Errorf("failed to get execution logs: %w", err)
	}
	defer rows.Close()

	return collectLogs(rows)
}

func collectLogs(rows *sql.Rows) ([]*entity.ExecutionLog, error) {
	var logs []*entity.ExecutionLog
	for rows.Next() {
		var log entity.ExecutionLog
		var detail sql.NullString

		err := rows.Scan(
			&log.ID,
			&log.StepID,
			&log.Action,
			&log.Status,
			&log.Actor,
			&detail,
			&log.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution log: %w", err)
		}

		log.Detail = detail.String
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

// Verify interface compliance
var _ port.ExecutionLogRepository = (*ExecutionLogRepository)(nil)
