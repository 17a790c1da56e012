package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for TUI components.
var (
	ColorPrimary = lipgloss.Color("#e67e22") // Orange
	ColorAccent  = lipgloss.Color("#16a085") // Teal
	ColorMuted   = lipgloss.Color("#95a5a6") // Gray
	ColorWarning = lipgloss.Color("#f39c12") // Amber
	ColorError   = lipgloss.Color("#e74c3c") // Red
	ColorInfo    = lipgloss.Color("#3498db") // Blue
	ColorSuccess = lipgloss.Color("#2ecc71") // Green
)

// Text styles.
var (
	// TitleStyle for main headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle for section headings.
	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	// SuccessStyle for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is used for upstream and validation failures, which are
	// shown verbatim.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// WarningStyle for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// SelectedStyle for selected items in lists.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// UnselectedStyle for unselected items in lists.
	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	// ModelStyle for displaying model names.
	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// CostStyle for displaying costs.
	CostStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// SpinnerStyle for spinner text.
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// StageStyle for stage names.
	StageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// DaysStyle highlights the active-days column of the ranking.
	DaysStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)
)

// PhaseStyle colors a session phase name in the status bar.
func PhaseStyle(inFlight bool) lipgloss.Style {
	if inFlight {
		return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
}

// Container styles.
var (
	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	// FocusedBoxStyle marks the pane that receives key input.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)
