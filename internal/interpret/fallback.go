package interpret

import (
	"github.com/google/uuid"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
)

// FallbackTitle marks the deterministic clarification task. Producer output
// that echoes this title is classified as degenerate rather than presentable.
const FallbackTitle = "Clarify request details"

// IsGenericTitle reports whether a producer-supplied title is the fallback's
// own generic marker, i.e. carries no real interpretation.
func IsGenericTitle(title string) bool {
	return title == FallbackTitle
}

// FallbackInterpretation is the deterministic substitute used when the
// producer errors, times out, or returns degenerate output. It degrades to
// "ask the human": one clarification task, zero entities and dates, one
// ambiguity asking for the concrete goal.
func FallbackInterpretation(rawInput string) Interpretation {
	task := entity.Task{
		TaskID:     uuid.NewString(),
		Title:      FallbackTitle,
		Summary:    placeholderTitle(rawInput),
		Domain:     entity.DomainOther,
		Urgency:    entity.UrgencyMedium,
		Complexity: entity.ComplexityModerate,
		Entities:   []entity.Entity{},
		Dates:      []entity.DatedItem{},
		Status: entity.StatusTriple{
			Pending: "Waiting for the user to clarify the request",
		},
		Ambiguities: []entity.Ambiguity{
			{
				Question:  "What is the concrete goal of this request?",
				Rationale: "The request could not be interpreted automatically",
			},
		},
		HiddenDependencies: []entity.HiddenDependency{},
		Lifecycle:          entity.TaskInterpreted,
	}
	task.Confidence = ScoreTask(&task)

	return Interpretation{
		Summary: "Interpretation unavailable; clarification needed",
		Tasks:   []entity.Task{task},
	}
}

// FallbackPlan is the deterministic two-step substitute plan: clarify, then
// confirm, both user_only, chained by a single step reference, flagged once
// at low severity. It guarantees planning never stalls on producer failure.
func FallbackPlan() PlanOutline {
	return PlanOutline{
		DeclaredTotal: 2,
		Effort:        entity.EffortMinutes,
		NextAction:    "Clarify missing details",
		RiskFlags: []entity.RiskFlag{
			{
				Severity:    "low",
				Description: "Plan generated without producer input; steps are placeholders",
			},
		},
		Steps: []StepOutline{
			{
				Number:     1,
				Action:     "Clarify missing details",
				Detail:     "Answer the open questions on this task so a real plan can be generated",
				Effort:     entity.EffortMinutes,
				Delegation: entity.UserOnly,
				Status:     lifecycle.StatePending.String(),
			},
			{
				Number: 2,
				Action: "Confirm next actions",
				Detail: "Review the clarified task and confirm how to proceed",
				Dependencies: []entity.StepDependency{
					{Type: entity.DepStepReference, StepRef: 1},
				},
				Effort:     entity.EffortMinutes,
				Delegation: entity.UserOnly,
				Status:     lifecycle.StatePending.String(),
			},
		},
	}
}
