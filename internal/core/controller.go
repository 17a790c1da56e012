package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ControllerConfig configures the workflow controller.
type ControllerConfig struct {
	TopN            int
	AnalysisModel   string
	GenerationModel string
	Temperature     float64
	Timeout         time.Duration
	Product         Product
}

// DefaultControllerConfig returns sensible defaults.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		TopN:        DefaultTopN,
		Temperature: 0.6,
		Timeout:     DefaultTimeout,
		Product:     DefaultProduct(),
	}
}

// AnalyzeInput is what stage 1 needs from the caller.
type AnalyzeInput struct {
	Records     []AdRecord
	AsOf        time.Time
	Credentials string
}

// GenerateInput is what stage 2 needs from the caller.
// An empty Brand falls back to the configured product brand.
type GenerateInput struct {
	Brand       string
	Credentials string
}

// Controller owns the session State and runs the two completion stages.
// Only one stage may be in flight at a time; overlapping calls get a StateError.
type Controller struct {
	completer Completer
	config    ControllerConfig
	logger    *zap.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a controller with a fresh session.
func NewController(completer Completer, config ControllerConfig, logger *zap.Logger) *Controller {
	if config.TopN <= 0 {
		config.TopN = DefaultTopN
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Product.Brand == "" {
		config.Product = DefaultProduct()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	return &Controller{
		completer: completer,
		config:    config,
		logger:    logger.With(zap.String("session", id)),
		state: State{
			SessionID: id,
			Phase:     PhaseIdle,
			RankedAds: []RankedAd{},
			UpdatedAt: time.Now(),
		},
	}
}

// Config returns the controller configuration.
func (c *Controller) Config() ControllerConfig {
	return c.config
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Restore replaces the session content with a previously saved state.
// Transient phases are collapsed to the rest phase the content implies.
func (c *Controller) Restore(s State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase.InFlight() {
		return &StateError{Action: "restore", Phase: c.state.Phase}
	}

	restored := s.clone()
	if restored.SessionID == "" {
		restored.SessionID = c.state.SessionID
	}
	if restored.RankedAds == nil {
		restored.RankedAds = []RankedAd{}
	}
	restored.Phase = restored.stablePhase()
	restored.UpdatedAt = time.Now()
	c.state = restored

	c.logger.Info("state restored",
		zap.String("phase", restored.Phase.String()),
		zap.Int("ranked_ads", len(restored.RankedAds)))
	return nil
}

// LoadAds ranks records and stores the snapshot without contacting the
// completion service. It does not touch the guide or generated ads.
func (c *Controller) LoadAds(records []AdRecord, asOf time.Time) ([]RankedAd, error) {
	ranked := Rank(records, c.config.TopN, asOf)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase.InFlight() {
		return nil, &StateError{Action: "load ads", Phase: c.state.Phase}
	}
	c.state.RankedAds = ranked
	c.state.UpdatedAt = time.Now()

	c.logger.Info("ads ranked", zap.Int("records", len(records)), zap.Int("top", len(ranked)))
	return cloneRanked(ranked), nil
}

// Analyze runs stage 1: rank the records, ask the service for a strategy
// guide and store it. On failure the previous guide (if any) is kept.
func (c *Controller) Analyze(ctx context.Context, in AnalyzeInput) (State, error) {
	ranked := Rank(in.Records, c.config.TopN, in.AsOf)
	if len(ranked) == 0 {
		return c.State(), &InputValidationError{Field: "ads", Message: "no competitor ads to analyze"}
	}
	credentials := strings.TrimSpace(in.Credentials)
	if credentials == "" {
		return c.State(), &InputValidationError{Field: "credentials", Message: "API key is required"}
	}

	prev, err := c.begin("analyze", PhaseAnalyzing, func(s *State) {
		s.RankedAds = ranked
	})
	if err != nil {
		return c.State(), err
	}

	prompt := BuildStrategyPrompt(ranked, c.config.Product)
	text, err := c.complete(ctx, "analysis", c.config.AnalysisModel, prompt, credentials)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Phase = prev
		c.state.UpdatedAt = time.Now()
		c.logger.Warn("analysis failed", zap.Error(err), zap.String("phase", prev.String()))
		return c.state.clone(), err
	}

	c.state.StrategyGuide = text
	c.state.Phase = PhaseAnalyzed
	c.state.UpdatedAt = time.Now()
	c.logger.Info("strategy guide stored", zap.Int("chars", len(text)))
	return c.state.clone(), nil
}

// Generate runs stage 2: turn the stored strategy guide into ad creatives
// for a brand. It is rejected without any service call until a guide exists.
func (c *Controller) Generate(ctx context.Context, in GenerateInput) (State, error) {
	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		brand = c.config.Product.Brand
	}
	credentials := strings.TrimSpace(in.Credentials)

	var guide string
	prev, err := c.begin("generate", PhaseGenerating, func(s *State) {
		guide = s.StrategyGuide
	}, func(s State) error {
		if !s.HasGuide() {
			return &InputValidationError{Field: "strategy_guide", Message: "analyze competitor ads first"}
		}
		if credentials == "" {
			return &InputValidationError{Field: "credentials", Message: "API key is required"}
		}
		return nil
	})
	if err != nil {
		return c.State(), err
	}

	prompt := BuildAdPrompt(guide, brand, c.config.Product)
	text, err := c.complete(ctx, "generation", c.config.GenerationModel, prompt, credentials)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Phase = prev
		c.state.UpdatedAt = time.Now()
		c.logger.Warn("ad generation failed", zap.Error(err), zap.String("phase", prev.String()))
		return c.state.clone(), err
	}

	c.state.GeneratedAds = text
	c.state.Brand = brand
	c.state.Phase = PhaseGenerated
	c.state.UpdatedAt = time.Now()
	c.logger.Info("generated ads stored", zap.String("brand", brand), zap.Int("chars", len(text)))
	return c.state.clone(), nil
}

// begin checks preconditions under the lock and moves into an in-flight phase.
// It returns the rest phase to fall back to if the call fails.
func (c *Controller) begin(action string, to Phase, apply func(*State), checks ...func(State) error) (Phase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase.InFlight() {
		return c.state.Phase, &StateError{Action: action, Phase: c.state.Phase}
	}
	for _, check := range checks {
		if err := check(c.state); err != nil {
			return c.state.Phase, err
		}
	}

	prev := c.state.Phase
	apply(&c.state)
	c.state.Phase = to
	c.state.UpdatedAt = time.Now()
	c.logger.Debug("phase change", zap.String("from", prev.String()), zap.String("to", to.String()))
	return prev, nil
}

func (c *Controller) complete(ctx context.Context, stage, model, prompt, credentials string) (string, error) {
	start := time.Now()
	c.logger.Info("completion request",
		zap.String("stage", stage),
		zap.String("provider", c.completer.Name()),
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)))

	text, err := c.completer.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		Credentials: credentials,
		Model:       model,
		Temperature: c.config.Temperature,
		Timeout:     c.config.Timeout,
	})

	c.logger.Info("completion finished",
		zap.String("stage", stage),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("ok", err == nil))
	return text, err
}

func cloneRanked(r []RankedAd) []RankedAd {
	out := make([]RankedAd, len(r))
	copy(out, r)
	return out
}
