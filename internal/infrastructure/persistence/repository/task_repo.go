package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// TaskRepository implements port.TaskRepository. Nested interpretation
// sub-objects (entities, dates, status, ambiguities, hidden dependencies) are
// stored as JSON text columns; they are read whole and never queried into.
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) port.TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new interpreted task
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	entities, err := marshalJSON(task.Entities)
	if err != nil {
		return err
	}
	dates, err := marshalJSON(task.Dates)
	if err != nil {
		return err
	}
	status, err := marshalJSON(task.Status)
	if err != nil {
		return err
	}
	ambiguities, err := marshalJSON(task.Ambiguities)
	if err != nil {
		return err
	}
	hiddenDeps, err := marshalJSON(task.HiddenDependencies)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (
			request_id, task_id, title, summary, domain, urgency, complexity,
			entities, dates, status, ambiguities, hidden_dependencies,
			lifecycle, confidence, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		task.RequestID,
		task.TaskID,
		task.Title,
		task.Summary,
		task.Domain,
		task.Urgency,
		task.Complexity,
		entities,
		dates,
		status,
		ambiguities,
		hiddenDeps,
		task.Lifecycle,
		task.Confidence,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

const taskColumns = `
	id, request_id, task_id, title, summary, domain, urgency, complexity,
	entities, dates, status, ambiguities, hidden_dependencies,
	lifecycle, confidence, created_at, updated_at
`

// GetByID retrieves a task by ID. Returns nil without error when absent.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetByRequestID retrieves all tasks interpreted from one request
func (r *TaskRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE request_id = ? ORDER BY id ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get tasks by request ID", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// UpdateLifecycle advances a task's lifecycle status
func (r *TaskRepository) UpdateLifecycle(ctx context.Context, id int64, status entity.TaskStatus) error {
	query := `UPDATE tasks SET lifecycle = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update task lifecycle", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update task lifecycle: %w", err)
	}
	return nil
}

// List retrieves recent tasks, newest first
func (r *TaskRepository) List(ctx context.Context, limit, offset int) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]*entity.Task, error) {
	var tasks []*entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var summary sql.NullString
	var entities, dates, status, ambiguities, hiddenDeps string

	err := row.Scan(
		&task.ID,
		&task.RequestID,
		&task.TaskID,
		&task.Title,
		&summary,
		&task.Domain,
		&task.Urgency,
		&task.Complexity,
		&entities,
		&dates,
		&status,
		&ambiguities,
		&hiddenDeps,
		&task.Lifecycle,
		&task.Confidence,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Summary = summary.String
	if err := unmarshalJSON(entities, &task.Entities); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(dates, &task.Dates); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(status, &task.Status); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(ambiguities, &task.Ambiguities); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(hiddenDeps, &task.HiddenDependencies); err != nil {
		return nil, err
	}

	return &task, nil
}

// Verify interface compliance
var _ port.TaskRepository = (*TaskRepository)(nil)
