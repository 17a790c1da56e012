package llm

import (
	"fmt"
	"os"
)

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string   // Model identifier sent to the API
	Name        string   // Human-readable name
	Description string   // Brief description
	Provider    Provider // Provider serving the model
}

// groqModels lists chat models served by Groq's OpenAI-compatible endpoint.
var groqModels = []ModelInfo{
	{ID: "deepseek-r1-distill-llama-70b", Name: "DeepSeek R1 Distill Llama 70B", Description: "Reasoning distill, good long-form analysis", Provider: ProviderGroq},
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B Versatile", Description: "General purpose, strong copywriting", Provider: ProviderGroq},
	{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B Instant", Description: "Fastest, cheapest drafts", Provider: ProviderGroq},
	{ID: "gemma2-9b-it", Name: "Gemma 2 9B", Description: "Small instruction-tuned model", Provider: ProviderGroq},
}

var openAIModels = []ModelInfo{
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Fast multimodal model", Provider: ProviderOpenAI},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: ProviderOpenAI},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Description: "Balanced cost and quality", Provider: ProviderOpenAI},
}

var anthropicModels = []ModelInfo{
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability", Provider: ProviderAnthropic},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective", Provider: ProviderAnthropic},
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Maximum intelligence", Provider: ProviderAnthropic},
}

// Providers returns the supported providers, default first.
func Providers() []Provider {
	return []Provider{ProviderGroq, ProviderOpenAI, ProviderAnthropic}
}

// ModelsFor returns the catalog for a provider.
func ModelsFor(provider Provider) []ModelInfo {
	switch provider {
	case ProviderGroq:
		return groqModels
	case ProviderOpenAI:
		return openAIModels
	case ProviderAnthropic:
		return anthropicModels
	}
	return nil
}

// AllModels returns a flat list of every known model.
func AllModels() []ModelInfo {
	var result []ModelInfo
	for _, p := range Providers() {
		result = append(result, ModelsFor(p)...)
	}
	return result
}

// DefaultModel returns the first catalog entry for a provider.
func DefaultModel(provider Provider) string {
	models := ModelsFor(provider)
	if len(models) == 0 {
		return ""
	}
	return models[0].ID
}

// CredentialsEnv names the environment variable holding the provider's API key.
func CredentialsEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// CredentialsFromEnv returns the API key for provider, or "" when unset.
func CredentialsFromEnv(provider Provider) string {
	return os.Getenv(CredentialsEnv(provider))
}

// NewAdapter builds the adapter for config.Provider.
func NewAdapter(config Config) (Adapter, error) {
	switch config.Provider {
	case "", ProviderGroq, ProviderOpenAI:
		return NewChatCompletionsAdapter(config), nil
	case ProviderAnthropic:
		return NewAnthropicAPIAdapter(config), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
