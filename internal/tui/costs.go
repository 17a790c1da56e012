package tui

import "fmt"

// ModelPricing contains pricing per 1M tokens for the models in the catalog.
// Prices are in USD, list prices as of 2026-10.
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	// Groq
	"deepseek-r1-distill-llama-70b": {InputPer1M: 0.75, OutputPer1M: 0.99},
	"llama-3.3-70b-versatile":       {InputPer1M: 0.59, OutputPer1M: 0.79},
	"llama-3.1-8b-instant":          {InputPer1M: 0.05, OutputPer1M: 0.08},
	"gemma2-9b-it":                  {InputPer1M: 0.20, OutputPer1M: 0.20},

	// OpenAI
	"gpt-4o":       {InputPer1M: 2.5, OutputPer1M: 10.0},
	"gpt-4o-mini":  {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4.1-mini": {InputPer1M: 0.40, OutputPer1M: 1.60},

	// Anthropic
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},

	// Fallback for unknown models (use conservative estimate)
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens estimates token count from character count.
// Uses the approximation that 1 token ≈ 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost calculates the estimated cost for a model given token counts.
// Returns cost in USD.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}

	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000

	return inputCost + outputCost
}

// FormatCost formats a cost in USD for display.
func FormatCost(cost float64) string {
	if cost < 0.001 {
		return fmt.Sprintf("$%.4f", cost)
	}
	if cost < 0.01 {
		return fmt.Sprintf("$%.3f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens formats a token count for display.
// Uses k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}
