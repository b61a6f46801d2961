package entity

import "time"

// RiskFlag is a planner-surfaced concern about a plan.
type RiskFlag struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Plan is the ordered execution outline for exactly one task. Re-planning
// destroys and recreates every child step; plans are regenerable, execution
// history is not.
type Plan struct {
	ID     int64 `json:"id"`
	TaskID int64 `json:"task_id"`

	TotalSteps int         `json:"total_steps"`
	Effort     EffortLabel `json:"effort"`
	Deadline   *time.Time  `json:"deadline,omitempty"`

	// Counts of steps by delegation class as declared by the planner.
	DelegationSummary map[DelegationClass]int `json:"delegation_summary"`

	NextAction string     `json:"next_action,omitempty"`
	RiskFlags  []RiskFlag `json:"risk_flags"`
	Confidence float64    `json:"confidence"`
	Fallback   bool       `json:"fallback"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StepDependency is one declared prerequisite of a step. StepRef is only
// meaningful when Type is DepStepReference.
type StepDependency struct {
	Type        DependencyType `json:"type"`
	StepRef     int            `json:"step_ref,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Step is one action inside a plan. Number is 1-based and unique within the
// plan; it defines the default ordering and is the target of step-reference
// dependencies.
type Step struct {
	ID     int64 `json:"id"`
	PlanID int64 `json:"plan_id"`

	Number int    `json:"number"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`

	Dependencies []StepDependency `json:"dependencies"`
	Effort       EffortLabel      `json:"effort"`
	Delegation   DelegationClass  `json:"delegation"`

	Status        string     `json:"status"`
	SuggestedDate *time.Time `json:"suggested_date,omitempty"`
	Outcome       string     `json:"outcome,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StepRefs returns the step numbers this step declares hard ordering
// constraints against.
func (s *Step) StepRefs() []int {
	var refs []int
	for _, dep := range s.Dependencies {
		if dep.Type == DepStepReference && dep.StepRef > 0 {
			refs = append(refs, dep.StepRef)
		}
	}
	return refs
}
