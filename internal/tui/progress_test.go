package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dhabedank/ad-agent/internal/core"
)

func TestStageInfo(t *testing.T) {
	s := StartStage("Analysis", "llama-3.1-8b-instant", 4000)
	assert.Zero(t, s.Duration())

	s.Complete(400)
	assert.True(t, s.IsComplete)
	assert.GreaterOrEqual(t, s.Duration(), time.Duration(0))
	assert.InDelta(t, 1000*0.05/1e6+100*0.08/1e6, s.Cost(), 1e-12)
}

func TestRenderers(t *testing.T) {
	s := StartStage("Generation", "gpt-4o", 800)
	s.Complete(400)

	assert.Contains(t, RenderStageStart("Analysis", "gpt-4o", 800), "~200 input tokens")
	assert.Contains(t, RenderStageComplete(s), "~300 tokens")
	assert.Contains(t, RenderStageFailed("Analysis", errors.New("boom")), "boom")
	assert.Contains(t, RenderSummary([]StageInfo{s}), "Stages: 1")
}

func TestRenderRanking(t *testing.T) {
	ranked := []core.RankedAd{
		{AdRecord: core.AdRecord{Text: "Glow\nfrom within", StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, ActiveDays: 181},
	}

	out := RenderRanking(ranked, 40)
	assert.Contains(t, out, "Glow from within")
	assert.Contains(t, out, "181")
	assert.Contains(t, out, "2025-01-01")

	assert.Contains(t, RenderRanking(nil, 40), "No ads")
}
