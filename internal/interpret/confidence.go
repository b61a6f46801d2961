package interpret

import (
	"strings"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Confidence scores are advisory heuristics held inside (0.10, 0.99). They
// inform the user and downstream fallback decisions; they never gate
// execution.
const (
	scoreFloor   = 0.10
	scoreCeiling = 0.99

	taskBaseScore         = 0.85
	ambiguityPenalty      = 0.08
	ambiguityPenaltyCap   = 0.40
	noEntitiesPenalty     = 0.08
	urgentNoDatePenalty   = 0.10
	complexNoDepsPenalty  = 0.08
	emptyPendingPenalty   = 0.05
	emptyInterpretation   = 0.50
	minMeaningfulStatus   = 5

	planBaseScore        = 0.82
	stepCountPenalty     = 0.12
	zeroStepsPenalty     = 0.30
	noRiskFlagsPenalty   = 0.05
	noNextActionPenalty  = 0.05
	lowAutomationPenalty = 0.05
	lowAutomationShare   = 0.70
)

// ScoreTask estimates how trustworthy one interpreted task is. Deductions are
// proportional to the signals a careful human reviewer would distrust: open
// ambiguities, no extracted entities, urgency without a concrete date,
// declared complexity with no surfaced hidden dependency, and a near-empty
// "what is pending" status.
func ScoreTask(task *entity.Task) float64 {
	score := taskBaseScore

	ambiguityDeduction := float64(len(task.Ambiguities)) * ambiguityPenalty
	if ambiguityDeduction > ambiguityPenaltyCap {
		ambiguityDeduction = ambiguityPenaltyCap
	}
	score -= ambiguityDeduction

	if len(task.Entities) == 0 {
		score -= noEntitiesPenalty
	}

	if (task.Urgency == entity.UrgencyHigh || task.Urgency == entity.UrgencyCritical) && !hasConcreteDate(task.Dates) {
		score -= urgentNoDatePenalty
	}

	if task.Complexity == entity.ComplexityComplex && len(task.HiddenDependencies) == 0 {
		score -= complexNoDepsPenalty
	}

	if len(strings.TrimSpace(task.Status.Pending)) < minMeaningfulStatus {
		score -= emptyPendingPenalty
	}

	return clampScore(score)
}

// ScoreInterpretation is the mean of per-task scores, 0.5 when the producer
// returned no tasks at all.
func ScoreInterpretation(tasks []entity.Task) float64 {
	if len(tasks) == 0 {
		return emptyInterpretation
	}

	var sum float64
	for i := range tasks {
		sum += ScoreTask(&tasks[i])
	}
	return clampScore(sum / float64(len(tasks)))
}

// ScorePlan estimates how trustworthy a plan outline is. A declared step
// count disagreeing with the actual steps is scored down, not repaired; a
// plan that is mostly user_only signals low automation value.
func ScorePlan(outline *PlanOutline) float64 {
	score := planBaseScore

	if outline.DeclaredTotal != len(outline.Steps) {
		score -= stepCountPenalty
	}

	if len(outline.Steps) == 0 {
		score -= zeroStepsPenalty
	}

	if len(outline.RiskFlags) == 0 {
		score -= noRiskFlagsPenalty
	}

	if strings.TrimSpace(outline.NextAction) == "" {
		score -= noNextActionPenalty
	}

	if len(outline.Steps) > 0 {
		userOnly := 0
		for _, step := range outline.Steps {
			if step.Delegation == entity.UserOnly {
				userOnly++
			}
		}
		if float64(userOnly)/float64(len(outline.Steps)) > lowAutomationShare {
			score -= lowAutomationPenalty
		}
	}

	return clampScore(score)
}

func hasConcreteDate(dates []entity.DatedItem) bool {
	for _, d := range dates {
		if strings.TrimSpace(d.Value) != "" {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	if score < scoreFloor {
		return scoreFloor
	}
	if score > scoreCeiling {
		return scoreCeiling
	}
	return score
}
