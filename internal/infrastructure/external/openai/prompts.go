package openai

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the prompts and model parameters for both producer
// calls. Missing fields fall back to the built-in defaults so the engine
// runs without a prompts file.
type PromptConfig struct {
	Interpretation struct {
		Temperature  float32 `yaml:"temperature"`
		MaxTokens    int     `yaml:"max_tokens"`
		System       string  `yaml:"system"`
		UserTemplate string  `yaml:"user_template"`
	} `yaml:"interpretation"`

	Planning struct {
		Temperature  float32 `yaml:"temperature"`
		MaxTokens    int     `yaml:"max_tokens"`
		System       string  `yaml:"system"`
		UserTemplate string  `yaml:"user_template"`
	} `yaml:"planning"`
}

const defaultInterpretationSystem = `You turn a person's free-text request about their personal errands and obligations into structured tasks. Respond with ONLY a valid JSON object, no markdown, with this structure:
{
  "summary": "one-sentence restatement of the request",
  "tasks": [{
    "task_id": "string",
    "title": "string",
    "summary": "string",
    "domain": "follow_up|portal|job_application|scholarship|academic|financial|medical|legal|housing|other",
    "urgency": "critical|high|medium|low",
    "complexity": "simple|moderate|complex",
    "entities": [{"type": "string", "value": "string"}],
    "dates": [{"label": "string", "value": "YYYY-MM-DD", "provenance": "stated|inferred"}],
    "status": {"done": "string", "pending": "string", "blockers": ["string"]},
    "ambiguities": [{"question": "string", "rationale": "string", "default": "string"}],
    "hidden_dependencies": [{"insight": "string", "risk_if_ignored": "string"}]
  }]
}
Never invent dates the person did not state or clearly imply. Record anything unclear as an ambiguity instead of guessing.`

const defaultInterpretationUser = `Interpret this request:

{{.RawInput}}`

const defaultPlanningSystem = `You break one interpreted personal task into a concrete, ordered plan of steps. Respond with ONLY a valid JSON object, no markdown, with this structure:
{
  "total_steps": number,
  "effort": "minutes|hours|days",
  "deadline": "YYYY-MM-DD or omit",
  "next_action": "the single step the person should do first",
  "risk_flags": [{"severity": "low|medium|high", "description": "string"}],
  "steps": [{
    "number": 1,
    "action": "string",
    "detail": "string",
    "effort": "minutes|hours|days",
    "delegation": "can_draft|can_remind|can_track|user_only",
    "status": "ready|pending",
    "suggested_date": "YYYY-MM-DD or omit",
    "dependencies": [{"type": "step_reference|credential|document|external_party|information", "step_ref": number, "description": "string"}]
  }]
}
Mark a step user_only whenever it needs a signature, payment, identity verification, or an in-person action. Use step_reference dependencies to order steps that build on each other.`

const defaultPlanningUser = `Plan this task:

Title: {{.Title}}
Summary: {{.Summary}}
Domain: {{.Domain}}
Urgency: {{.Urgency}}
Complexity: {{.Complexity}}
{{- if .Dates}}
Known dates:
{{- range .Dates}}
- {{.Label}}{{if .Value}}: {{.Value}}{{end}} ({{.Provenance}})
{{- end}}
{{- end}}
{{- if .Status.Pending}}
Still pending: {{.Status.Pending}}
{{- end}}
{{- if .Status.Blockers}}
Blockers: {{range .Status.Blockers}}{{.}}; {{end}}
{{- end}}`

// LoadPrompts loads prompt configuration from a YAML file, filling any blank
// field from the defaults. An empty path returns the defaults outright.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	prompts := defaultPrompts()
	if promptsPath == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	defaults := defaultPrompts()
	if prompts.Interpretation.System == "" {
		prompts.Interpretation.System = defaults.Interpretation.System
	}
	if prompts.Interpretation.UserTemplate == "" {
		prompts.Interpretation.UserTemplate = defaults.Interpretation.UserTemplate
	}
	if prompts.Planning.System == "" {
		prompts.Planning.System = defaults.Planning.System
	}
	if prompts.Planning.UserTemplate == "" {
		prompts.Planning.UserTemplate = defaults.Planning.UserTemplate
	}
	return prompts, nil
}

func defaultPrompts() *PromptConfig {
	var prompts PromptConfig
	prompts.Interpretation.Temperature = 0.2
	prompts.Interpretation.MaxTokens = 2048
	prompts.Interpretation.System = defaultInterpretationSystem
	prompts.Interpretation.UserTemplate = defaultInterpretationUser
	prompts.Planning.Temperature = 0.2
	prompts.Planning.MaxTokens = 2048
	prompts.Planning.System = defaultPlanningSystem
	prompts.Planning.UserTemplate = defaultPlanningUser
	return &prompts
}

// renderTemplate renders a prompt template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
