package generate

import (
	"fmt"
	"strings"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Draft is a prepared message the user can review and send.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Document is a structured text byproduct (essay outline, letter, statement).
type Document struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FormField is one inferred field of a form the user will have to fill in.
type FormField struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Value  string `json:"value,omitempty"`
	Source string `json:"source"`
}

// NewDraft builds a review-ready message draft from a step's action and
// detail text. Returns nil when there is nothing to draft from.
func NewDraft(action, detail string) *Draft {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil
	}

	var body strings.Builder
	body.WriteString("Hello,\n\n")
	body.WriteString(fmt.Sprintf("I am writing regarding: %s.\n", action))
	if detail = strings.TrimSpace(detail); detail != "" {
		body.WriteString("\n" + detail + "\n")
	}
	body.WriteString("\nCould you let me know the current status and any next steps on my end?\n")
	body.WriteString("\nThank you,\n")

	return &Draft{
		Subject: action,
		Body:    body.String(),
	}
}

// NewDocument builds a skeleton document for steps whose text asks for
// written material. Returns nil when there is no usable context.
func NewDocument(context string) *Document {
	context = strings.TrimSpace(context)
	if context == "" {
		return nil
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("# %s\n\n", context))
	body.WriteString("## Purpose\n\nState in one or two sentences what this document needs to accomplish.\n\n")
	body.WriteString("## Key points\n\n- \n- \n- \n\n")
	body.WriteString("## Closing\n\nSummarize the ask and the timeline.\n")

	return &Document{
		Title: context,
		Body:  body.String(),
	}
}

// InferFormFields derives the likely fields of a form named by the step text
// and pre-fills them from the profile. Applying it twice with the same inputs
// yields identical fields and values.
func InferFormFields(context string, profile *entity.Profile) []FormField {
	fields := []FormField{
		profiledField("full_name", "Full name", profileValue(profile, func(p *entity.Profile) string { return p.FullName })),
		profiledField("email", "Email address", profileValue(profile, func(p *entity.Profile) string { return p.Email })),
		profiledField("phone", "Phone number", profileValue(profile, func(p *entity.Profile) string { return p.Phone })),
	}

	lower := strings.ToLower(context)

	if strings.Contains(lower, "scholarship") || strings.Contains(lower, "academic") || strings.Contains(lower, "school") {
		fields = append(fields,
			profiledField("school", "School or institution", profileValue(profile, func(p *entity.Profile) string { return p.School })),
			FormField{Name: "program", Label: "Program or award name", Source: "user"},
		)
	}

	if strings.Contains(lower, "job") || strings.Contains(lower, "employment") {
		fields = append(fields,
			FormField{Name: "position", Label: "Position applied for", Source: "user"},
			FormField{Name: "resume", Label: "Resume or CV attachment", Source: "user"},
		)
	}

	if strings.Contains(lower, "housing") || strings.Contains(lower, "address") {
		fields = append(fields,
			profiledField("address", "Current address", profileValue(profile, func(p *entity.Profile) string { return p.Address })),
		)
	}

	return fields
}

func profileValue(profile *entity.Profile, pick func(*entity.Profile) string) string {
	if profile == nil {
		return ""
	}
	return pick(profile)
}

func profiledField(name, label, value string) FormField {
	source := "profile"
	if value == "" {
		source = "user"
	}
	return FormField{Name: name, Label: label, Value: value, Source: source}
}
