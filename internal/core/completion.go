package core

import (
	"context"
	"time"
)

// SystemInstruction is sent as the system turn of every completion request.
const SystemInstruction = "You are a helpful and creative marketing AI assistant."

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 30 * time.Second

// CompletionRequest is one prompt sent to the completion service.
type CompletionRequest struct {
	Prompt      string
	Credentials string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Completer is the interface for text completion providers used by the controller.
// This matches llm.Adapter but is defined here to avoid import cycles.
type Completer interface {
	// Name returns the provider identifier for logging.
	Name() string

	// Complete makes exactly one request and returns the first completion's text.
	// Failures are *TransportError or *MalformedResponseError.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
