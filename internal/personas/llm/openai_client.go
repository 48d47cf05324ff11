package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"
	"github.com/hoangvvo/llm-sdk/sdk-go/openai"
)

// OpenAIOptions configures the OpenAI chat-completion client.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single completion call; zero means no limit.
	Timeout time.Duration
}

type languageModel interface {
	Generate(ctx context.Context, input *llmsdk.LanguageModelInput) (*llmsdk.ModelResponse, error)
}

// OpenAICompleter calls the OpenAI chat-completions API through llm-sdk.
type OpenAICompleter struct {
	model   languageModel
	timeout time.Duration
}

func NewOpenAICompleter(opts OpenAIOptions) *OpenAICompleter {
	model := openai.NewOpenAIChatModel(opts.Model, openai.OpenAIChatModelOptions{
		APIKey:  opts.APIKey,
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
	})
	return &OpenAICompleter{model: model, timeout: opts.Timeout}
}

func (c *OpenAICompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	input := &llmsdk.LanguageModelInput{
		Messages: []llmsdk.Message{
			{UserMessage: &llmsdk.UserMessage{
				Content: []llmsdk.Part{{TextPart: &llmsdk.TextPart{Text: p.User}}},
			}},
		},
	}
	if p.System != "" {
		input.SystemPrompt = ptr(p.System)
	}
	if p.Temperature > 0 {
		input.Temperature = ptr(p.Temperature)
	}
	if p.MaxTokens > 0 {
		input.MaxTokens = ptr(uint32(p.MaxTokens))
	}
	if p.JSON {
		input.ResponseFormat = &llmsdk.ResponseFormatOption{
			JSON: &llmsdk.ResponseFormatJSON{Name: "response"},
		}
	}

	resp, err := c.model.Generate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}

	var sb strings.Builder
	for _, part := range resp.Content {
		if part.TextPart != nil {
			sb.WriteString(part.TextPart.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

func ptr[T any](v T) *T {
	return &v
}
