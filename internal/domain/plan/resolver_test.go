package plan

import (
	"testing"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

func step(number int, status string, deps ...entity.StepDependency) *entity.Step {
	return &entity.Step{
		Number:       number,
		Action:       "action",
		Status:       status,
		Dependencies: deps,
	}
}

func stepRef(number int) entity.StepDependency {
	return entity.StepDependency{Type: entity.DepStepReference, StepRef: number}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		steps        []*entity.Step
		target       *entity.Step
		wantBlocked  bool
		wantUnmet    int
		wantDangling int
	}{
		{
			name:        "no dependencies",
			steps:       []*entity.Step{step(1, "pending")},
			target:      step(1, "pending"),
			wantBlocked: false,
		},
		{
			name:        "reference to done step",
			steps:       []*entity.Step{step(1, "done"), step(2, "authorized", stepRef(1))},
			target:      step(2, "authorized", stepRef(1)),
			wantBlocked: false,
		},
		{
			name:        "reference to pending step blocks",
			steps:       []*entity.Step{step(1, "pending"), step(2, "authorized", stepRef(1))},
			target:      step(2, "authorized", stepRef(1)),
			wantBlocked: true,
			wantUnmet:   1,
		},
		{
			name:        "reference to skipped step blocks",
			steps:       []*entity.Step{step(1, "skipped"), step(2, "authorized", stepRef(1))},
			target:      step(2, "authorized", stepRef(1)),
			wantBlocked: true,
			wantUnmet:   1,
		},
		{
			name:         "dangling reference does not block",
			steps:        []*entity.Step{step(1, "authorized", stepRef(9))},
			target:       step(1, "authorized", stepRef(9)),
			wantBlocked:  false,
			wantDangling: 1,
		},
		{
			name: "one unmet among several satisfied still blocks",
			steps: []*entity.Step{
				step(1, "done"),
				step(2, "done"),
				step(3, "pending"),
				step(4, "authorized", stepRef(1), stepRef(2), stepRef(3)),
			},
			target:      step(4, "authorized", stepRef(1), stepRef(2), stepRef(3)),
			wantBlocked: true,
			wantUnmet:   1,
		},
		{
			name: "informational dependency types never block",
			steps: []*entity.Step{
				step(1, "pending"),
				step(2, "authorized",
					entity.StepDependency{Type: entity.DepCredential, Description: "portal login"},
					entity.StepDependency{Type: entity.DepDocument, Description: "transcript"},
					entity.StepDependency{Type: entity.DepExternalParty, Description: "financial aid office"},
					entity.StepDependency{Type: entity.DepInformation, Description: "award amount"},
				),
			},
			target: step(2, "authorized",
				entity.StepDependency{Type: entity.DepCredential, Description: "portal login"},
				entity.StepDependency{Type: entity.DepDocument, Description: "transcript"},
				entity.StepDependency{Type: entity.DepExternalParty, Description: "financial aid office"},
				entity.StepDependency{Type: entity.DepInformation, Description: "award amount"},
			),
			wantBlocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(BuildIndex(tt.steps), tt.target)
			if res.Blocked != tt.wantBlocked {
				t.Errorf("Resolve().Blocked = %v, want %v", res.Blocked, tt.wantBlocked)
			}
			if len(res.UnmetRefs) != tt.wantUnmet {
				t.Errorf("Resolve().UnmetRefs = %v, want %d entries", res.UnmetRefs, tt.wantUnmet)
			}
			if len(res.DanglingRefs) != tt.wantDangling {
				t.Errorf("Resolve().DanglingRefs = %v, want %d entries", res.DanglingRefs, tt.wantDangling)
			}
		})
	}
}

func TestResolve_UnblocksWhenSiblingCompletes(t *testing.T) {
	first := step(1, "authorized")
	second := step(2, "authorized", stepRef(1))
	index := BuildIndex([]*entity.Step{first, second})

	if res := Resolve(index, second); !res.Blocked {
		t.Fatal("Resolve() not blocked before sibling completes")
	}

	first.Status = "done"
	if res := Resolve(index, second); res.Blocked {
		t.Fatal("Resolve() still blocked after sibling completed")
	}
}

func TestSortByNumber(t *testing.T) {
	steps := []*entity.Step{step(3, "pending"), step(1, "pending"), step(2, "pending")}
	SortByNumber(steps)

	for i, want := range []int{1, 2, 3} {
		if steps[i].Number != want {
			t.Errorf("steps[%d].Number = %d, want %d", i, steps[i].Number, want)
		}
	}
}
