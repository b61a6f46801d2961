package port

import (
	"context"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// TransactionManager runs a function within a database transaction. The
// transaction is propagated through the context to repositories.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RequestRepository persists raw user requests.
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Request, error)
}

// TaskRepository persists interpreted tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Task, error)
	UpdateLifecycle(ctx context.Context, id int64, status entity.TaskStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.Task, error)
}

// PlanRepository persists plans. Exactly one plan exists per task, enforced
// by a unique key on task id.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id int64) (*entity.Plan, error)
	GetByTaskID(ctx context.Context, taskID int64) (*entity.Plan, error)
	Delete(ctx context.Context, id int64) error
}

// StepRepository persists plan steps.
type StepRepository interface {
	Create(ctx context.Context, step *entity.Step) error
	GetByID(ctx context.Context, id int64) (*entity.Step, error)
	GetByPlanID(ctx context.Context, planID int64) ([]*entity.Step, error)
	UpdateStatus(ctx context.Context, id int64, status string) error

	// MarkDone flips a step to done with its outcome, guarded by the
	// expected prior status "authorized". Returns false when the guard did
	// not match, which means another caller already advanced the step.
	MarkDone(ctx context.Context, id int64, outcome string, completedAt time.Time) (bool, error)

	DeleteByPlanID(ctx context.Context, planID int64) error
}

// ExecutionLogRepository persists the append-only audit trail. There is
// deliberately no update or delete.
type ExecutionLogRepository interface {
	Create(ctx context.Context, log *entity.ExecutionLog) error
	GetByStepID(ctx context.Context, stepID int64) ([]*entity.ExecutionLog, error)
	GetByPlanID(ctx context.Context, planID int64) ([]*entity.ExecutionLog, error)
}

// PlanRunRepository persists sweep results.
type PlanRunRepository interface {
	Create(ctx context.Context, run *entity.PlanRun) error
	GetByPlanID(ctx context.Context, planID int64) ([]*entity.PlanRun, error)
}

// ArtifactRepository persists execution byproduct records. The bytes live in
// the artifact store; this holds the searchable metadata and content text.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.FileArtifact) error
	GetByStepID(ctx context.Context, stepID int64) ([]*entity.FileArtifact, error)
}

// ProfileRepository reads user profiles used to pre-fill inferred form
// fields. Read-only at execution time.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
}
