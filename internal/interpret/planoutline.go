package interpret

import (
	"strings"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// PlanOutline is the fully-typed, not-yet-persisted shape of one producer
// planning response. DeclaredTotal is kept as declared even when it disagrees
// with len(Steps); the mismatch is a scoring deduction, never silently
// repaired.
type PlanOutline struct {
	DeclaredTotal int
	Effort        entity.EffortLabel
	Deadline      *time.Time
	NextAction    string
	RiskFlags     []entity.RiskFlag
	Steps         []StepOutline
}

// StepOutline is one normalized step inside a plan outline.
type StepOutline struct {
	Number        int
	Action        string
	Detail        string
	Dependencies  []entity.StepDependency
	Effort        entity.EffortLabel
	Delegation    entity.DelegationClass
	Status        string
	SuggestedDate *time.Time
}

// DelegationSummary counts outline steps by delegation class.
func (o *PlanOutline) DelegationSummary() map[entity.DelegationClass]int {
	summary := make(map[entity.DelegationClass]int)
	for _, step := range o.Steps {
		summary[step.Delegation]++
	}
	return summary
}

// NormalizePlan coerces raw producer planning output into a typed outline.
// Step numbers missing or colliding are reassigned sequentially so numbering
// stays 1-based and unique within the plan. Never fails; a degenerate outline
// (zero steps) is the caller's signal to fall back.
func NormalizePlan(raw map[string]any) PlanOutline {
	outline := PlanOutline{
		DeclaredTotal: getInt(raw, "total_steps", "step_count"),
		Effort:        clampEffort(getString(raw, "effort", "total_effort")),
		Deadline:      getTime(raw, "deadline"),
		NextAction:    getString(raw, "next_action"),
	}

	for _, item := range getList(raw, "risk_flags") {
		rm := asMap(item)
		if rm == nil {
			continue
		}
		description := getString(rm, "description", "flag")
		if description == "" {
			continue
		}
		severity := strings.ToLower(getString(rm, "severity"))
		if severity == "" {
			severity = "low"
		}
		outline.RiskFlags = append(outline.RiskFlags, entity.RiskFlag{
			Severity:    severity,
			Description: description,
		})
	}

	seen := make(map[int]bool)
	for i, item := range getList(raw, "steps") {
		sm := asMap(item)
		if sm == nil {
			continue
		}
		step := normalizeStep(sm, i+1)
		if step.Action == "" {
			continue
		}
		if step.Number <= 0 || seen[step.Number] {
			step.Number = len(outline.Steps) + 1
		}
		seen[step.Number] = true
		outline.Steps = append(outline.Steps, step)
	}

	if outline.DeclaredTotal == 0 {
		outline.DeclaredTotal = len(outline.Steps)
	}

	return outline
}

func normalizeStep(m map[string]any, position int) StepOutline {
	step := StepOutline{
		Number:        getInt(m, "number", "step_number"),
		Action:        strings.TrimSpace(getString(m, "action", "title")),
		Detail:        getString(m, "detail", "description"),
		Effort:        clampEffort(getString(m, "effort")),
		Delegation:    clampDelegation(getString(m, "delegation", "delegation_class")),
		Status:        clampInitialStatus(getString(m, "status")),
		SuggestedDate: getTime(m, "suggested_date"),
	}
	if step.Number <= 0 {
		step.Number = position
	}

	for _, item := range getList(m, "dependencies") {
		dm := asMap(item)
		if dm == nil {
			continue
		}
		dep := entity.StepDependency{
			Type:        clampDependencyType(getString(dm, "type")),
			Description: getString(dm, "description"),
		}
		if dep.Type == entity.DepStepReference {
			dep.StepRef = getInt(dm, "step_ref", "step")
			if dep.StepRef <= 0 {
				continue
			}
		}
		step.Dependencies = append(step.Dependencies, dep)
	}

	return step
}

func clampDependencyType(v string) entity.DependencyType {
	switch entity.DependencyType(strings.ToLower(strings.TrimSpace(v))) {
	case entity.DepStepReference:
		return entity.DepStepReference
	case entity.DepCredential:
		return entity.DepCredential
	case entity.DepDocument:
		return entity.DepDocument
	case entity.DepExternalParty:
		return entity.DepExternalParty
	default:
		return entity.DepInformation
	}
}
