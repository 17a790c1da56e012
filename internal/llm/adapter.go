package llm

import (
	"context"
	"time"

	"github.com/dhabedank/ad-agent/internal/core"
)

// Adapter is the interface all completion providers must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Complete sends one prompt and returns the first completion's text.
	Complete(ctx context.Context, req core.CompletionRequest) (string, error)
}

var _ core.Completer = Adapter(nil)

// Provider identifies a completion service.
type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds configuration for completion adapters.
type Config struct {
	Provider Provider

	// Model is used when a request does not name one.
	Model string

	// Per-stage model configuration.
	// These override Model when set.
	AnalysisModel   string `yaml:"analysis_model"`
	GenerationModel string `yaml:"generation_model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	Temperature float64
	Timeout     time.Duration

	// MaxTokens limits response length where the provider requires it.
	MaxTokens int
}

// ModelForStage returns the model to use for a given stage.
// Falls back to the default Model if no stage-specific model is set.
func (c Config) ModelForStage(stage string) string {
	switch stage {
	case "analysis":
		if c.AnalysisModel != "" {
			return c.AnalysisModel
		}
	case "generation":
		if c.GenerationModel != "" {
			return c.GenerationModel
		}
	}
	return c.Model
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderGroq,
		Model:       DefaultModel(ProviderGroq),
		Temperature: 0.6,
		Timeout:     core.DefaultTimeout,
		MaxTokens:   4096,
	}
}
