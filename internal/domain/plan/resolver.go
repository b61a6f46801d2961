// Package plan holds pure domain logic evaluated over a snapshot of a plan's
// steps. Nothing here performs I/O; callers supply current state and act on
// the result.
package plan

import (
	"sort"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
)

// Resolution is the outcome of a dependency check for one target step.
// Blocked-by-dependency is derived live rather than persisted, because
// dependency satisfaction changes as sibling steps complete.
type Resolution struct {
	Blocked bool

	// UnmetRefs lists referenced step numbers that exist and are not done.
	UnmetRefs []int

	// DanglingRefs lists referenced step numbers with no matching step.
	// These do not block; see the resolver contract.
	DanglingRefs []int
}

// Index maps step number to step for one resolution pass.
type Index map[int]*entity.Step

// BuildIndex builds a number-to-step index over the full step set of a plan.
func BuildIndex(steps []*entity.Step) Index {
	index := make(Index, len(steps))
	for _, step := range steps {
		index[step.Number] = step
	}
	return index
}

// Resolve determines whether target is blocked given the current state of its
// siblings. Only step-reference dependencies are enforced; a reference to a
// step number absent from the plan is recorded but never blocks.
func Resolve(index Index, target *entity.Step) Resolution {
	var res Resolution

	for _, ref := range target.StepRefs() {
		referenced, exists := index[ref]
		if !exists {
			res.DanglingRefs = append(res.DanglingRefs, ref)
			continue
		}
		if referenced.Status != lifecycle.StateDone.String() {
			res.UnmetRefs = append(res.UnmetRefs, ref)
		}
	}

	res.Blocked = len(res.UnmetRefs) > 0
	return res
}

// SortByNumber orders steps by ascending step number in place. Bulk sweeps
// evaluate steps in this order.
func SortByNumber(steps []*entity.Step) {
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Number < steps[j].Number
	})
}
