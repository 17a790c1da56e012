package cmd

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/ad-agent/internal/config"
	"github.com/dhabedank/ad-agent/internal/llm"
)

func press(m setupModel, msg tea.KeyMsg) setupModel {
	next, _ := m.Update(msg)
	return next.(setupModel)
}

func TestSetupWizardSelectsProviderAndModels(t *testing.T) {
	m := newSetupModel()
	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m = press(m, down) // openai
	m = press(m, down) // anthropic
	m = press(m, enter)
	require.Equal(t, llm.ProviderAnthropic, m.provider)
	require.Equal(t, stepAnalysis, m.step)

	m = press(m, enter) // first anthropic model
	m = press(m, down)
	m = press(m, enter) // second anthropic model

	assert.Equal(t, stepCount, m.step)
	catalog := llm.ModelsFor(llm.ProviderAnthropic)
	assert.Equal(t, catalog[0].ID, m.models[stepAnalysis])
	assert.Equal(t, catalog[1].ID, m.models[stepGeneration])

	cfg := config.Default()
	cfg.BaseURL = "http://proxy.local/v1"
	m.apply(&cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, catalog[1].ID, cfg.GenerationModel)
	assert.Empty(t, cfg.BaseURL, "base url belonged to the previous provider")
}

func TestSetupWizardCancel(t *testing.T) {
	m := press(newSetupModel(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, m.cancelled)
	assert.Empty(t, m.View())
}

func TestSetupWizardBack(t *testing.T) {
	m := press(newSetupModel(), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepAnalysis, m.step)

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, stepProvider, m.step)
	assert.Contains(t, m.View(), "[Provider]")
}
