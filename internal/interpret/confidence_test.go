package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

func cleanTask() entity.Task {
	return entity.Task{
		Title:      "Follow up on scholarship",
		Domain:     entity.DomainScholarship,
		Urgency:    entity.UrgencyMedium,
		Complexity: entity.ComplexityModerate,
		Entities:   []entity.Entity{{Type: "organization", Value: "State University"}},
		Dates:      []entity.DatedItem{{Label: "deadline", Value: "2026-09-15", Provenance: entity.DateStated}},
		Status:     entity.StatusTriple{Pending: "Waiting on the award letter"},
	}
}

func TestScoreTask_CleanTaskScoresBase(t *testing.T) {
	task := cleanTask()
	assert.InDelta(t, 0.85, ScoreTask(&task), 1e-9)
}

func TestScoreTask_Deductions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Task)
		want   float64
	}{
		{
			name: "one ambiguity",
			mutate: func(task *entity.Task) {
				task.Ambiguities = []entity.Ambiguity{{Question: "which one?"}}
			},
			want: 0.77,
		},
		{
			name: "ambiguity deduction caps at 0.4",
			mutate: func(task *entity.Task) {
				for i := 0; i < 10; i++ {
					task.Ambiguities = append(task.Ambiguities, entity.Ambiguity{Question: "?"})
				}
			},
			want: 0.45,
		},
		{
			name: "no entities",
			mutate: func(task *entity.Task) {
				task.Entities = nil
			},
			want: 0.77,
		},
		{
			name: "high urgency without concrete date",
			mutate: func(task *entity.Task) {
				task.Urgency = entity.UrgencyHigh
				task.Dates = []entity.DatedItem{{Label: "deadline", Provenance: entity.DateUnknown}}
			},
			want: 0.75,
		},
		{
			name: "critical urgency with concrete date keeps base",
			mutate: func(task *entity.Task) {
				task.Urgency = entity.UrgencyCritical
			},
			want: 0.85,
		},
		{
			name: "complex without hidden dependencies",
			mutate: func(task *entity.Task) {
				task.Complexity = entity.ComplexityComplex
			},
			want: 0.77,
		},
		{
			name: "complex with hidden dependencies keeps base",
			mutate: func(task *entity.Task) {
				task.Complexity = entity.ComplexityComplex
				task.HiddenDependencies = []entity.HiddenDependency{{Insight: "needs enrollment verification"}}
			},
			want: 0.85,
		},
		{
			name: "near-empty pending status",
			mutate: func(task *entity.Task) {
				task.Status.Pending = "  ok "
			},
			want: 0.80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := cleanTask()
			tt.mutate(&task)
			assert.InDelta(t, tt.want, ScoreTask(&task), 1e-9)
		})
	}
}

func TestScoreTask_StaysInsideBounds(t *testing.T) {
	task := entity.Task{
		Urgency:    entity.UrgencyCritical,
		Complexity: entity.ComplexityComplex,
	}
	for i := 0; i < 20; i++ {
		task.Ambiguities = append(task.Ambiguities, entity.Ambiguity{Question: "?"})
	}

	score := ScoreTask(&task)
	assert.GreaterOrEqual(t, score, 0.1)
	assert.LessOrEqual(t, score, 0.99)
}

func TestScoreInterpretation(t *testing.T) {
	assert.InDelta(t, 0.5, ScoreInterpretation(nil), 1e-9)

	a := cleanTask()
	b := cleanTask()
	b.Entities = nil

	got := ScoreInterpretation([]entity.Task{a, b})
	assert.InDelta(t, (0.85+0.77)/2, got, 1e-9)
}

func TestScorePlan(t *testing.T) {
	base := func() PlanOutline {
		return PlanOutline{
			DeclaredTotal: 2,
			NextAction:    "Draft the email",
			RiskFlags:     []entity.RiskFlag{{Severity: "low", Description: "tight deadline"}},
			Steps: []StepOutline{
				{Number: 1, Action: "a", Delegation: entity.CanDraft},
				{Number: 2, Action: "b", Delegation: entity.UserOnly},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*PlanOutline)
		want   float64
	}{
		{"well formed", func(o *PlanOutline) {}, 0.82},
		{
			name:   "declared count mismatch",
			mutate: func(o *PlanOutline) { o.DeclaredTotal = 5 },
			want:   0.70,
		},
		{
			name: "zero steps",
			mutate: func(o *PlanOutline) {
				o.Steps = nil
				o.DeclaredTotal = 0
			},
			want: 0.52,
		},
		{
			name:   "no risk flags",
			mutate: func(o *PlanOutline) { o.RiskFlags = nil },
			want:   0.77,
		},
		{
			name:   "no next action",
			mutate: func(o *PlanOutline) { o.NextAction = "  " },
			want:   0.77,
		},
		{
			name: "mostly user_only",
			mutate: func(o *PlanOutline) {
				o.Steps = []StepOutline{
					{Number: 1, Action: "a", Delegation: entity.UserOnly},
					{Number: 2, Action: "b", Delegation: entity.UserOnly},
					{Number: 3, Action: "c", Delegation: entity.UserOnly},
					{Number: 4, Action: "d", Delegation: entity.CanDraft},
				}
				o.DeclaredTotal = 4
			},
			want: 0.77,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline := base()
			tt.mutate(&outline)
			assert.InDelta(t, tt.want, ScorePlan(&outline), 1e-9)
		})
	}
}

func TestScorePlan_MismatchScoresStrictlyLower(t *testing.T) {
	matched := PlanOutline{
		DeclaredTotal: 1,
		NextAction:    "go",
		RiskFlags:     []entity.RiskFlag{{Severity: "low", Description: "x"}},
		Steps:         []StepOutline{{Number: 1, Action: "a", Delegation: entity.CanDraft}},
	}
	mismatched := matched
	mismatched.DeclaredTotal = 3

	assert.Less(t, ScorePlan(&mismatched), ScorePlan(&matched))
}

func TestFallbackInterpretation(t *testing.T) {
	out := FallbackInterpretation("garbled input")

	require.Len(t, out.Tasks, 1)
	task := out.Tasks[0]
	assert.Equal(t, FallbackTitle, task.Title)
	assert.True(t, IsGenericTitle(task.Title))
	assert.NotEmpty(t, task.TaskID)
	assert.Empty(t, task.Entities)
	assert.Empty(t, task.Dates)
	require.Len(t, task.Ambiguities, 1)
	assert.Equal(t, entity.DomainOther, task.Domain)
}

func TestFallbackPlan(t *testing.T) {
	outline := FallbackPlan()

	require.Len(t, outline.Steps, 2)
	assert.Equal(t, 2, outline.DeclaredTotal)
	for _, step := range outline.Steps {
		assert.Equal(t, entity.UserOnly, step.Delegation)
	}
	require.Len(t, outline.Steps[1].Dependencies, 1)
	assert.Equal(t, entity.DepStepReference, outline.Steps[1].Dependencies[0].Type)
	assert.Equal(t, 1, outline.Steps[1].Dependencies[0].StepRef)
	require.Len(t, outline.RiskFlags, 1)
	assert.Equal(t, "low", outline.RiskFlags[0].Severity)
}
