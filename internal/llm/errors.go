package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"

	"github.com/dhabedank/ad-agent/internal/core"
)

// classifyError maps SDK errors onto the workflow's failure kinds.
func classifyError(provider string, err error) error {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &core.TransportError{Provider: provider, StatusCode: openaiErr.StatusCode, Err: err}
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return &core.TransportError{Provider: provider, StatusCode: anthropicErr.StatusCode, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &core.MalformedResponseError{Provider: provider, Reason: "body is not a completion object", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &core.TransportError{Provider: provider, Err: errors.New("request timed out")}
	}

	return &core.TransportError{Provider: provider, Err: err}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = core.DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
