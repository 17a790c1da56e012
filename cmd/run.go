package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/internal/tui"
)

var runBrand string

// RunCmd starts the interactive session.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Interactive analyze and generate session",
	Long: `Open the interactive form: enter your API key, load a competitor ad file,
analyze it into a strategy guide and generate ads for your brand.

Logs go to --log-file when set; otherwise they are discarded so they do not
draw over the screen.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	RunCmd.Flags().StringVarP(&credentialsFlag, "credentials", "k", "", "API key (default: provider environment variable)")
	RunCmd.Flags().StringVarP(&runBrand, "brand", "b", "", "Brand to prefill")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctrl, err := newController(cfg, logger)
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.AppOptions{
		Controller:  ctrl,
		Provider:    cfg.Provider,
		DataPath:    cfg.DataFile,
		Brand:       runBrand,
		Credentials: resolveCredentials(credentialsFlag, cfg),
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	if m, ok := final.(tui.App); ok {
		fmt.Print(m.View())
	}
	return nil
}
