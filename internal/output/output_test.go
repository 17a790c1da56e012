package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/ad-agent/internal/core"
)

func sampleState() core.State {
	return core.State{
		SessionID: "3f1c",
		Phase:     core.PhaseGenerated,
		RankedAds: []core.RankedAd{
			{AdRecord: core.AdRecord{Text: "Glow from within", StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, ActiveDays: 181},
		},
		StrategyGuide: "Lead with authority.",
		GeneratedAds:  "Ad 1: Clear skin starts inside.",
		Brand:         "Ventamin",
		UpdatedAt:     time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	snap := NewSnapshot(sampleState(), core.DefaultProduct())

	require.NoError(t, Save(path, snap))
	loaded, err := Load(path)
	require.NoError(t, err)

	if diff := cmp.Diff(snap.State, loaded.State); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, snap.Product, loaded.Product)
	assert.Equal(t, SnapshotVersion, loaded.Version)
}

func TestLoadRejectsBadSnapshots(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0644))
	_, err := Load(garbage)
	assert.True(t, core.IsValidation(err))

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version": 99}`), 0644))
	_, err = Load(future)
	assert.True(t, core.IsValidation(err))
	assert.Contains(t, err.Error(), "unsupported snapshot version 99")

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestTextAdapter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextAdapter{}).Write(&buf, NewSnapshot(sampleState(), core.DefaultProduct())))

	out := buf.String()
	assert.Contains(t, out, "Session 3f1c (generated)")
	assert.Contains(t, out, "1. [181 days, since 2025-01-01] Glow from within")
	assert.Contains(t, out, "Lead with authority.")
	assert.Contains(t, out, "Generated ads for Ventamin")
}

func TestTextAdapterEmptySession(t *testing.T) {
	var buf bytes.Buffer
	s := core.State{SessionID: "x", RankedAds: []core.RankedAd{}}
	require.NoError(t, (&TextAdapter{}).Write(&buf, NewSnapshot(s, core.DefaultProduct())))

	assert.Contains(t, buf.String(), "(none)")
	assert.NotContains(t, buf.String(), "Strategy guide")
}

func TestForFormat(t *testing.T) {
	a, err := ForFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "json", a.Name())

	a, err = ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "text", a.Name())

	_, err = ForFormat("yaml")
	assert.Error(t, err)
}
