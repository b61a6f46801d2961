package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Producer implements port.Producer against the OpenAI chat completion API.
// Both calls return the decoded JSON object untyped; schema coercion lives in
// the interpret package, and every failure here is absorbed by the caller's
// fallback path.
type Producer struct {
	client  *openai.Client
	model   string
	prompts *PromptConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewProducer creates a new OpenAI producer
func NewProducer(apiKey, model string, prompts *PromptConfig, timeout time.Duration, logger *zap.Logger) *Producer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Producer{
		client:  openai.NewClient(apiKey),
		model:   model,
		prompts: prompts,
		timeout: timeout,
		logger:  logger,
	}
}

// Interpret asks the model to decompose raw request text into tasks.
func (p *Producer) Interpret(ctx context.Context, rawInput string) (map[string]any, error) {
	p.logger.Debug("Interpreting request", zap.Int("input_len", len(rawInput)))

	prompt, err := renderTemplate(p.prompts.Interpretation.UserTemplate, struct {
		RawInput string
	}{RawInput: rawInput})
	if err != nil {
		return nil, fmt.Errorf("failed to render interpretation prompt: %w", err)
	}

	return p.complete(ctx, p.prompts.Interpretation.System, prompt,
		p.prompts.Interpretation.Temperature, p.prompts.Interpretation.MaxTokens)
}

// PlanTask asks the model to break one interpreted task into ordered steps.
func (p *Producer) PlanTask(ctx context.Context, task *entity.Task) (map[string]any, error) {
	p.logger.Debug("Planning task",
		zap.Int64("task_id", task.ID),
		zap.String("domain", string(task.Domain)))

	prompt, err := renderTemplate(p.prompts.Planning.UserTemplate, task)
	if err != nil {
		return nil, fmt.Errorf("failed to render planning prompt: %w", err)
	}

	return p.complete(ctx, p.prompts.Planning.System, prompt,
		p.prompts.Planning.Temperature, p.prompts.Planning.MaxTokens)
}

func (p *Producer) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Some models still wrap the object in markdown fences despite the
		// response format hint.
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
				p.logger.Info("Extracted JSON from fenced response")
				return result, nil
			}
		}

		p.logger.Error("Failed to parse OpenAI response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

// extractJSON returns the first balanced top-level JSON object in content, or
// an empty string.
func extractJSON(content string) string {
	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return content[start : i+1]
				}
			}
		}
	}
	return ""
}
