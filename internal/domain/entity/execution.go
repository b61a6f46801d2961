package entity

import "time"

// ExecutionLog is an immutable audit entry attached to a step. Append-only;
// never updated or deleted. This is the ground truth for what actually
// happened, independent of mutable step state.
type ExecutionLog struct {
	ID     int64 `json:"id"`
	StepID int64 `json:"step_id"`

	Action string `json:"action"`
	Status string `json:"status"`
	Actor  string `json:"actor"`

	// Detail is a JSON document: outcome text, generated payloads, artifact
	// locators, artifact errors.
	Detail string `json:"detail,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Execution log action labels.
const (
	LogStepAuthorized   = "Step authorized"
	LogStepRejected     = "Step rejected"
	LogStepExecuted     = "Step executed"
	LogExecutionBlocked = "Execution blocked"
)

// PlanRun records one full sweep of a plan's steps: what executed, what was
// skipped and why, and how many steps existed at the time.
type PlanRun struct {
	ID     int64 `json:"id"`
	PlanID int64 `json:"plan_id"`

	Executed            int `json:"executed"`
	SkippedUnauthorized int `json:"skipped_unauthorized"`
	SkippedDependencies int `json:"skipped_dependencies"`
	TotalSteps          int `json:"total_steps"`

	CreatedAt time.Time `json:"created_at"`
}

// FileArtifact is a best-effort persisted byproduct of execution. Creation
// failure never fails the owning step.
type FileArtifact struct {
	ID     int64  `json:"id"`
	StepID *int64 `json:"step_id,omitempty"`

	Name        string       `json:"name"`
	Kind        ArtifactKind `json:"kind"`
	Content     string       `json:"content,omitempty"`
	ContentType string       `json:"content_type"`
	Locator     string       `json:"locator"`

	CreatedAt time.Time `json:"created_at"`
}
