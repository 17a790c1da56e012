package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dhabedank/ad-agent/internal/core"
)

// StageInfo holds timing and size information about one completion stage.
type StageInfo struct {
	Name        string
	Model       string
	InputChars  int
	OutputChars int
	StartTime   time.Time
	EndTime     time.Time
	IsComplete  bool
}

// StartStage begins tracking a stage.
func StartStage(name, model string, inputChars int) StageInfo {
	return StageInfo{
		Name:       name,
		Model:      model,
		InputChars: inputChars,
		StartTime:  time.Now(),
	}
}

// Complete marks the stage finished.
func (s *StageInfo) Complete(outputChars int) {
	s.OutputChars = outputChars
	s.EndTime = time.Now()
	s.IsComplete = true
}

// Duration of the stage; zero until complete.
func (s StageInfo) Duration() time.Duration {
	if !s.IsComplete {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Cost estimates the stage's spend in USD.
func (s StageInfo) Cost() float64 {
	return EstimateCost(s.Model, EstimateTokens(s.InputChars), EstimateTokens(s.OutputChars))
}

// RenderStageStart returns a string for stage start (non-interactive mode).
func RenderStageStart(name, model string, inputChars int) string {
	return fmt.Sprintf("%s %s  %s  ~%s input tokens",
		SpinnerStyle.Render("→"),
		StageStyle.Render(name),
		ModelStyle.Render(model),
		FormatTokens(EstimateTokens(inputChars)),
	)
}

// RenderStageComplete returns a string for stage completion (non-interactive mode).
func RenderStageComplete(s StageInfo) string {
	return fmt.Sprintf("%s %s  %s  ~%s tokens  %s",
		SuccessStyle.Render("✓"),
		StageStyle.Render(s.Name),
		HelpStyle.Render(s.Duration().Truncate(time.Second).String()),
		FormatTokens(EstimateTokens(s.InputChars)+EstimateTokens(s.OutputChars)),
		CostStyle.Render(FormatCost(s.Cost())),
	)
}

// RenderStageFailed shows err verbatim.
func RenderStageFailed(name string, err error) string {
	return fmt.Sprintf("%s %s  %s",
		ErrorStyle.Render("✗"),
		StageStyle.Render(name),
		ErrorStyle.Render(err.Error()),
	)
}

// RenderSummary returns a summary string (non-interactive mode).
func RenderSummary(stages []StageInfo) string {
	var totalIn, totalOut int
	var totalCost float64
	var totalDuration time.Duration

	for _, s := range stages {
		totalIn += EstimateTokens(s.InputChars)
		totalOut += EstimateTokens(s.OutputChars)
		totalCost += s.Cost()
		totalDuration += s.Duration()
	}

	return fmt.Sprintf("\n%s\n  Stages: %d  Tokens: ~%s in / ~%s out  Est. cost: %s  Time: %s\n",
		TitleStyle.Render("Done"),
		len(stages),
		FormatTokens(totalIn),
		FormatTokens(totalOut),
		CostStyle.Render(FormatCost(totalCost)),
		totalDuration.Truncate(time.Second).String(),
	)
}

// RenderRanking renders ranked ads as a bordered table. Ad text is
// flattened to one line and cut at width runes.
func RenderRanking(ranked []core.RankedAd, width int) string {
	if len(ranked) == 0 {
		return HelpStyle.Render("No ads to display.")
	}

	rows := make([][]string, len(ranked))
	for i, ad := range ranked {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(ad.ActiveDays),
			ad.StartDate.Format("2006-01-02"),
			Truncate(ad.Text, width),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("#", "Active days", "Start date", "Ad copy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true).Foreground(ColorPrimary)
			case col == 1:
				return style.Inherit(DaysStyle)
			}
			return style
		})
	return t.Render()
}

// Truncate flattens whitespace and cuts s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
