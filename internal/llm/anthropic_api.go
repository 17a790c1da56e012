package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dhabedank/ad-agent/internal/core"
)

// AnthropicAPIAdapter uses the Anthropic Messages API.
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicAPIAdapter creates an Anthropic API adapter.
func NewAnthropicAPIAdapter(config Config) *AnthropicAPIAdapter {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if config.BaseURL != "" {
		baseURL := config.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderAnthropic)
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &AnthropicAPIAdapter{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *AnthropicAPIAdapter) Name() string {
	return string(ProviderAnthropic)
}

func (a *AnthropicAPIAdapter) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: core.SystemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}, option.WithAPIKey(req.Credentials))
	if err != nil {
		return "", classifyError(a.Name(), err)
	}

	// Extract text from response
	var output strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			output.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(output.String()) == "" {
		return "", &core.MalformedResponseError{Provider: a.Name(), Reason: "response has no text content"}
	}
	return output.String(), nil
}
