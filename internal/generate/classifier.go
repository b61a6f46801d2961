// Package generate produces execution byproducts: drafts, documents, and
// inferred form fields. Every function is deterministic given its inputs and
// safe to retry; which generators fire is decided by content classification,
// not by delegation class alone.
package generate

import "strings"

// Keyword sets are enumerated here so classification behavior is testable and
// swappable without touching orchestrator control flow.
var (
	documentKeywords = []string{
		"document", "essay", "letter", "statement", "write-up", "summary",
	}

	formKeywords = []string{
		"form", "application", "portal", "apply", "register", "enroll",
	}
)

// ContentKind reports which generators a step's text calls for. The flags are
// additive: one step can legitimately want a document and a form at once.
type ContentKind struct {
	Document bool
	Form     bool
}

// Classify inspects a step's action and detail text and decides which
// content-driven generators apply.
func Classify(action, detail string) ContentKind {
	text := strings.ToLower(action + " " + detail)

	return ContentKind{
		Document: containsAny(text, documentKeywords),
		Form:     containsAny(text, formKeywords),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
