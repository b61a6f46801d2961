package entity

import "time"

// Request is one raw free-text submission from the user. A request fans out
// into N interpreted tasks.
type Request struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	RawInput   string    `json:"raw_input"`
	Summary    string    `json:"summary,omitempty"`
	Confidence float64   `json:"confidence"`
	Fallback   bool      `json:"fallback"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Entity is a typed item the interpreter extracted from the raw input
// (an organization, a person, a deadline-bearing program, ...).
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DatedItem is a date the interpreter attached to the task, with provenance
// so downstream consumers know whether the user actually said it.
type DatedItem struct {
	Label      string         `json:"label"`
	Value      string         `json:"value,omitempty"`
	Provenance DateProvenance `json:"provenance"`
}

// Ambiguity is an open question the interpreter could not resolve from the
// input alone.
type Ambiguity struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale,omitempty"`
	Default   string `json:"default,omitempty"`
}

// HiddenDependency is a non-obvious prerequisite the interpreter surfaced.
type HiddenDependency struct {
	Insight       string `json:"insight"`
	RiskIfIgnored string `json:"risk_if_ignored,omitempty"`
}

// StatusTriple captures what is done, what remains, and what stands in the way.
type StatusTriple struct {
	Done     string   `json:"done,omitempty"`
	Pending  string   `json:"pending,omitempty"`
	Blockers []string `json:"blockers,omitempty"`
}

// Task is one decomposed unit of user intent, produced by interpretation and
// owned by a Request.
type Task struct {
	ID        int64  `json:"id"`
	RequestID int64  `json:"request_id"`
	TaskID    string `json:"task_id"`

	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`

	Domain     TaskDomain `json:"domain"`
	Urgency    Urgency    `json:"urgency"`
	Complexity Complexity `json:"complexity"`

	Entities           []Entity           `json:"entities"`
	Dates              []DatedItem        `json:"dates"`
	Status             StatusTriple       `json:"status"`
	Ambiguities        []Ambiguity        `json:"ambiguities"`
	HiddenDependencies []HiddenDependency `json:"hidden_dependencies"`

	Lifecycle  TaskStatus `json:"lifecycle"`
	Confidence float64    `json:"confidence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the read-only user facts used to pre-fill inferred form
// fields during execution.
type Profile struct {
	UserID    string            `json:"user_id"`
	FullName  string            `json:"full_name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Address   string            `json:"address,omitempty"`
	School    string            `json:"school,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
