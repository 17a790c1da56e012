package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dhabedank/ad-agent/internal/core"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1/"
	openAIBaseURL = "https://api.openai.com/v1/"
)

// ChatCompletionsAdapter talks to any OpenAI-compatible /chat/completions endpoint.
// Groq is the default deployment.
type ChatCompletionsAdapter struct {
	client   openai.Client
	provider Provider
	model    string
}

// NewChatCompletionsAdapter creates an adapter for groq or openai.
func NewChatCompletionsAdapter(config Config) *ChatCompletionsAdapter {
	provider := config.Provider
	if provider == "" {
		provider = ProviderGroq
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
		if provider == ProviderOpenAI {
			baseURL = openAIBaseURL
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	model := config.Model
	if model == "" {
		model = DefaultModel(provider)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &ChatCompletionsAdapter{
		client:   client,
		provider: provider,
		model:    model,
	}
}

func (a *ChatCompletionsAdapter) Name() string {
	return string(a.provider)
}

func (a *ChatCompletionsAdapter) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(core.SystemInstruction),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}, option.WithAPIKey(req.Credentials))
	if err != nil {
		return "", classifyError(a.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", &core.MalformedResponseError{Provider: a.Name(), Reason: "response has no choices"}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &core.MalformedResponseError{Provider: a.Name(), Reason: "first choice has no message content"}
	}

	return content, nil
}
