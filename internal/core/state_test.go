package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseJSON(t *testing.T) {
	for phase := PhaseIdle; phase <= PhaseGenerated; phase++ {
		data, err := json.Marshal(phase)
		require.NoError(t, err)

		var back Phase
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, phase, back)
	}

	var p Phase
	assert.Error(t, json.Unmarshal([]byte(`"cooking"`), &p))
}

func TestPhaseInFlight(t *testing.T) {
	assert.False(t, PhaseIdle.InFlight())
	assert.True(t, PhaseAnalyzing.InFlight())
	assert.False(t, PhaseAnalyzed.InFlight())
	assert.True(t, PhaseGenerating.InFlight())
	assert.False(t, PhaseGenerated.InFlight())
	assert.Equal(t, "phase(42)", Phase(42).String())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: credentials - API key is required",
		(&InputValidationError{Field: "credentials", Message: "API key is required"}).Error())
	assert.Equal(t, "cannot generate while analyzing",
		(&StateError{Action: "generate", Phase: PhaseAnalyzing}).Error())
	assert.Contains(t, (&TransportError{Provider: "groq", StatusCode: 401, Err: assert.AnError}).Error(), "status 401")
}
