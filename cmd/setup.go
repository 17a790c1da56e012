package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/internal/config"
	"github.com/dhabedank/ad-agent/internal/llm"
	"github.com/dhabedank/ad-agent/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Pick a completion provider and a model for each stage:
- Provider: groq, openai or anthropic
- Analysis model: turns competitor ads into a strategy guide
- Generation model: writes the ad creatives

Configuration is saved to ~/.ad-agent.yaml. Other settings in that file are kept.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

const (
	stepProvider = iota
	stepAnalysis
	stepGeneration
	stepCount
)

var stepNames = []string{"Provider", "Analysis", "Generation"}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := config.HomePath()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration reset to defaults")
		fmt.Printf("  Removed: %s\n", configPath)
		return nil
	}

	existing := ""
	if _, err := os.Stat(configPath); err == nil {
		existing = configPath
	}
	cfg, err := config.Load(existing)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newSetupModel())
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	final := m.(setupModel)
	if final.cancelled {
		fmt.Println("Setup cancelled")
		return nil
	}

	final.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration saved to " + configPath)
	fmt.Println()
	fmt.Printf("  Provider:   %s\n", tui.ModelStyle.Render(cfg.Provider))
	fmt.Printf("  Analysis:   %s\n", tui.ModelStyle.Render(cfg.AnalysisModel))
	fmt.Printf("  Generation: %s\n", tui.ModelStyle.Render(cfg.GenerationModel))
	fmt.Printf("\n  Credentials are read from %s.\n", tui.ModelStyle.Render(llm.CredentialsEnv(llm.Provider(cfg.Provider))))

	return nil
}

// Bubble Tea model for the setup wizard.

type setupModel struct {
	step      int
	lists     [stepCount]list.Model
	provider  llm.Provider
	models    [stepCount]string
	cancelled bool
	width     int
	height    int
}

type providerItem llm.Provider

func (p providerItem) Title() string { return string(p) }
func (p providerItem) Description() string {
	return "default model " + llm.DefaultModel(llm.Provider(p)) + ", key from " + llm.CredentialsEnv(llm.Provider(p))
}
func (p providerItem) FilterValue() string { return string(p) }

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.ID + " · " + m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(tui.ColorMuted)

	l := list.New(items, delegate, 60, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = tui.TitleStyle
	return l
}

func newSetupModel() setupModel {
	providers := llm.Providers()
	items := make([]list.Item, len(providers))
	for i, p := range providers {
		items[i] = providerItem(p)
	}

	var m setupModel
	m.lists[stepProvider] = newList("Select Provider", items)
	return m
}

// modelLists rebuilds the per-stage lists for the chosen provider.
func (m *setupModel) modelLists() {
	catalog := llm.ModelsFor(m.provider)
	items := make([]list.Item, len(catalog))
	for i, info := range catalog {
		items[i] = modelItem{info: info}
	}
	m.lists[stepAnalysis] = newList("Select Analysis Model (Stage 1)", items)
	m.lists[stepGeneration] = newList("Select Generation Model (Stage 2)", items)
	if m.width > 0 {
		for i := stepAnalysis; i < stepCount; i++ {
			m.lists[i].SetSize(m.width, m.height-4)
		}
	}
}

func (m setupModel) apply(cfg *config.Config) {
	if cfg.Provider != string(m.provider) {
		cfg.BaseURL = ""
	}
	cfg.Provider = string(m.provider)
	cfg.Model = llm.DefaultModel(m.provider)
	cfg.AnalysisModel = m.models[stepAnalysis]
	cfg.GenerationModel = m.models[stepGeneration]
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.lists[stepProvider].SetSize(msg.Width, msg.Height-4)
		if m.provider != "" {
			m.lists[stepAnalysis].SetSize(msg.Width, msg.Height-4)
			m.lists[stepGeneration].SetSize(msg.Width, msg.Height-4)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			switch item := m.lists[m.step].SelectedItem().(type) {
			case providerItem:
				m.provider = llm.Provider(item)
				m.modelLists()
			case modelItem:
				m.models[m.step] = item.info.ID
			}

			m.step++
			if m.step >= stepCount {
				return m, tea.Quit
			}
			return m, nil

		case "left", "h":
			if m.step > 0 {
				m.step--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.step], cmd = m.lists[m.step].Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled {
		return ""
	}

	progress := "\n  "
	for i, s := range stepNames {
		switch {
		case i == m.step:
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		case i < m.step:
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		default:
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(stepNames)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")

	if m.step >= stepCount {
		return progress + help
	}
	return progress + m.lists[m.step].View() + help
}
