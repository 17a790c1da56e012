package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGroq, config.Provider)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", config.Model)
	assert.Equal(t, 0.6, config.Temperature)
	assert.Equal(t, 30.0, config.Timeout.Seconds())
}

func TestModelForStage(t *testing.T) {
	config := Config{Model: "base", GenerationModel: "writer"}

	assert.Equal(t, "base", config.ModelForStage("analysis"))
	assert.Equal(t, "writer", config.ModelForStage("generation"))
	assert.Equal(t, "base", config.ModelForStage("other"))
}

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		provider Provider
		name     string
	}{
		{"", "groq"},
		{ProviderGroq, "groq"},
		{ProviderOpenAI, "openai"},
		{ProviderAnthropic, "anthropic"},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			adapter, err := NewAdapter(Config{Provider: tt.provider})
			require.NoError(t, err)
			assert.Equal(t, tt.name, adapter.Name())
		})
	}

	_, err := NewAdapter(Config{Provider: "cohere"})
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	for _, p := range Providers() {
		models := ModelsFor(p)
		require.NotEmpty(t, models, "provider %s", p)
		for _, m := range models {
			assert.Equal(t, p, m.Provider)
		}
		assert.Equal(t, models[0].ID, DefaultModel(p))
	}
	assert.Len(t, AllModels(), len(groqModels)+len(openAIModels)+len(anthropicModels))
	assert.Empty(t, DefaultModel("cohere"))
}

func TestCredentialsEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	assert.Equal(t, "GROQ_API_KEY", CredentialsEnv(ProviderGroq))
	assert.Equal(t, "ANTHROPIC_API_KEY", CredentialsEnv(ProviderAnthropic))
	assert.Equal(t, "gsk_test", CredentialsFromEnv(ProviderGroq))
}
