// Package interpret is the trust boundary around the text-completion
// producer. Producer output is loosely typed and best-effort; everything in
// this package is a pure transform that coerces it into the strict domain
// schema, scores it, or substitutes a deterministic fallback. Nothing here
// performs I/O or returns an error.
package interpret

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
)

// Interpretation is the fully-typed result of normalizing one producer
// response. Every task has a non-empty task id, a non-generic title where the
// input allows it, and default-filled sub-objects instead of nulls.
type Interpretation struct {
	Summary string
	Tasks   []entity.Task
}

const titlePlaceholderLimit = 60

// Normalize coerces raw producer output into a fully-typed interpretation.
// Enum fields are clamped to their closed sets; missing required fields get
// documented defaults. Never fails: the worst input yields an empty task list
// the caller then routes through the fallback generator.
func Normalize(raw map[string]any, rawInput string) Interpretation {
	out := Interpretation{
		Summary: getString(raw, "summary"),
	}

	for i, item := range getList(raw, "tasks") {
		m := asMap(item)
		if m == nil {
			continue
		}
		out.Tasks = append(out.Tasks, normalizeTask(m, rawInput, i))
	}

	return out
}

func normalizeTask(m map[string]any, rawInput string, index int) entity.Task {
	task := entity.Task{
		TaskID:     getString(m, "task_id", "id"),
		Title:      normalizeTitle(m, rawInput),
		Summary:    getString(m, "summary"),
		Domain:     clampDomain(getString(m, "domain")),
		Urgency:    clampUrgency(getString(m, "urgency")),
		Complexity: clampComplexity(getString(m, "complexity")),
		Lifecycle:  entity.TaskInterpreted,
	}

	if task.TaskID == "" {
		task.TaskID = uuid.NewString()
	}

	for _, item := range getList(m, "entities") {
		em := asMap(item)
		if em == nil {
			continue
		}
		value := getString(em, "value", "name")
		if value == "" {
			continue
		}
		typ := getString(em, "type")
		if typ == "" {
			typ = "unknown"
		}
		task.Entities = append(task.Entities, entity.Entity{Type: typ, Value: value})
	}

	for _, item := range getList(m, "dates") {
		dm := asMap(item)
		if dm == nil {
			continue
		}
		task.Dates = append(task.Dates, entity.DatedItem{
			Label:      getString(dm, "label", "description"),
			Value:      getString(dm, "value", "date"),
			Provenance: clampProvenance(getString(dm, "provenance", "source")),
		})
	}

	if sm := asMap(m["status"]); sm != nil {
		task.Status = entity.StatusTriple{
			Done:    getString(sm, "done"),
			Pending: getString(sm, "pending"),
		}
		for _, b := range getList(sm, "blockers") {
			if s, ok := b.(string); ok && s != "" {
				task.Status.Blockers = append(task.Status.Blockers, s)
			}
		}
	}

	for _, item := range getList(m, "ambiguities") {
		am := asMap(item)
		if am == nil {
			continue
		}
		question := getString(am, "question")
		if question == "" {
			continue
		}
		task.Ambiguities = append(task.Ambiguities, entity.Ambiguity{
			Question:  question,
			Rationale: getString(am, "rationale", "reason"),
			Default:   getString(am, "default"),
		})
	}

	for _, item := range getList(m, "hidden_dependencies") {
		hm := asMap(item)
		if hm == nil {
			continue
		}
		insight := getString(hm, "insight", "description")
		if insight == "" {
			continue
		}
		task.HiddenDependencies = append(task.HiddenDependencies, entity.HiddenDependency{
			Insight:       insight,
			RiskIfIgnored: getString(hm, "risk_if_ignored", "risk"),
		})
	}

	// Sub-objects default to empty slices rather than nulls so consumers
	// never branch on nil.
	if task.Entities == nil {
		task.Entities = []entity.Entity{}
	}
	if task.Dates == nil {
		task.Dates = []entity.DatedItem{}
	}
	if task.Ambiguities == nil {
		task.Ambiguities = []entity.Ambiguity{}
	}
	if task.HiddenDependencies == nil {
		task.HiddenDependencies = []entity.HiddenDependency{}
	}

	task.Confidence = ScoreTask(&task)
	return task
}

// normalizeTitle falls back through title, summary, action, then a truncated
// placeholder built from the original input.
func normalizeTitle(m map[string]any, rawInput string) string {
	for _, key := range []string{"title", "summary", "action"} {
		if v := strings.TrimSpace(getString(m, key)); v != "" {
			return v
		}
	}
	return placeholderTitle(rawInput)
}

func placeholderTitle(rawInput string) string {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "Untitled request"
	}
	if len(trimmed) > titlePlaceholderLimit {
		trimmed = strings.TrimSpace(trimmed[:titlePlaceholderLimit]) + "..."
	}
	return "Request: " + trimmed
}

func clampDomain(v string) entity.TaskDomain {
	d := entity.TaskDomain(strings.ToLower(strings.TrimSpace(v)))
	if !d.IsValid() {
		return entity.DomainOther
	}
	return d
}

func clampUrgency(v string) entity.Urgency {
	u := entity.Urgency(strings.ToLower(strings.TrimSpace(v)))
	if !u.IsValid() {
		return entity.UrgencyMedium
	}
	return u
}

func clampComplexity(v string) entity.Complexity {
	c := entity.Complexity(strings.ToLower(strings.TrimSpace(v)))
	if !c.IsValid() {
		return entity.ComplexityModerate
	}
	return c
}

func clampProvenance(v string) entity.DateProvenance {
	p := entity.DateProvenance(strings.ToLower(strings.TrimSpace(v)))
	if !p.IsValid() {
		return entity.DateUnknown
	}
	return p
}

func clampDelegation(v string) entity.DelegationClass {
	d := entity.DelegationClass(strings.ToLower(strings.TrimSpace(v)))
	if !d.IsValid() {
		return entity.UserOnly
	}
	return d
}

func clampEffort(v string) entity.EffortLabel {
	switch entity.EffortLabel(strings.ToLower(strings.TrimSpace(v))) {
	case entity.EffortMinutes:
		return entity.EffortMinutes
	case entity.EffortDays:
		return entity.EffortDays
	default:
		return entity.EffortHours
	}
}

func clampInitialStatus(v string) string {
	s := lifecycle.State(strings.ToLower(strings.TrimSpace(v)))
	if s == lifecycle.StateReady {
		return lifecycle.StateReady.String()
	}
	return lifecycle.StatePending.String()
}

// getString returns the first non-empty string value among keys.
func getString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func getList(m map[string]any, key string) []any {
	if l, ok := m[key].([]any); ok {
		return l
	}
	return nil
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// getInt tolerates the number encodings JSON decoding produces.
func getInt(m map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

func getTime(m map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}
