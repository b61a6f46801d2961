package port

import (
	"context"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Producer is the external text-completion boundary for interpretation and
// planning. Output is loosely typed by design; the interpret package owns
// coercion into the strict schema. The engine never retries a producer call
// beyond its own timeout; on error it substitutes the fallback generator.
type Producer interface {
	Interpret(ctx context.Context, rawInput string) (map[string]any, error)
	PlanTask(ctx context.Context, task *entity.Task) (map[string]any, error)
}

// ArtifactStore persists execution byproduct bytes out-of-band and returns a
// locator. Store failures are non-fatal to the owning step.
type ArtifactStore interface {
	Store(ctx context.Context, name string, content []byte, contentType string) (string, error)
	Read(ctx context.Context, locator string) ([]byte, error)
}
