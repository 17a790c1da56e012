package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Phase is the position of a session in the analyze → generate workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseAnalyzed
	PhaseGenerating
	PhaseGenerated
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseAnalyzing:  "analyzing",
	PhaseAnalyzed:   "analyzed",
	PhaseGenerating: "generating",
	PhaseGenerated:  "generated",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// InFlight reports whether a completion call is outstanding in this phase.
func (p Phase) InFlight() bool {
	return p == PhaseAnalyzing || p == PhaseGenerating
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for phase, name := range phaseNames {
		if name == s {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", s)
}

// State is the per-session workflow data. Only the Controller mutates it;
// everyone else works on copies returned by Controller.State.
type State struct {
	SessionID     string     `json:"session_id"`
	Phase         Phase      `json:"phase"`
	RankedAds     []RankedAd `json:"ranked_ads"`
	StrategyGuide string     `json:"strategy_guide,omitempty"`
	GeneratedAds  string     `json:"generated_ads,omitempty"`
	Brand         string     `json:"brand,omitempty"` // brand of the last GeneratedAds
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasGuide reports whether stage 1 has produced a usable guide.
func (s State) HasGuide() bool {
	return strings.TrimSpace(s.StrategyGuide) != ""
}

// HasAds reports whether stage 2 has produced output.
func (s State) HasAds() bool {
	return strings.TrimSpace(s.GeneratedAds) != ""
}

func (s State) clone() State {
	c := s
	if s.RankedAds != nil {
		c.RankedAds = make([]RankedAd, len(s.RankedAds))
		copy(c.RankedAds, s.RankedAds)
	}
	return c
}

// stablePhase derives the rest phase implied by the stored content.
// Used when restoring a snapshot that was taken mid-flight.
func (s State) stablePhase() Phase {
	switch {
	case s.HasGuide() && s.HasAds():
		return PhaseGenerated
	case s.HasGuide():
		return PhaseAnalyzed
	default:
		return PhaseIdle
	}
}
