package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/internal/config"
	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/dataset"
	"github.com/dhabedank/ad-agent/internal/output"
	"github.com/dhabedank/ad-agent/internal/tui"
)

// Flags shared by analyze and generate.
var (
	credentialsFlag string
	saveSnapshot    string
	outputFormat    string
	outputPath      string
)

var analyzeAsOf string

// AnalyzeCmd runs stage 1 and prints the strategy guide.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Turn the top competitor ads into a strategy guide",
	Long: `Rank the competitor ads, send the top ones to the completion provider and
print the resulting strategy guide.

Use --save to write the session to a JSON snapshot that "generate --from" can
pick up later.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	addStageFlags(AnalyzeCmd)
	AnalyzeCmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "Rank as of this date (YYYY-MM-DD, default: today)")
}

func addStageFlags(c *cobra.Command) {
	c.Flags().StringVarP(&credentialsFlag, "credentials", "k", "", "API key (default: provider environment variable)")
	c.Flags().StringVar(&saveSnapshot, "save", "", "Save the session snapshot to this JSON file")
	c.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text/json)")
	c.Flags().StringVar(&outputPath, "output-path", "", "Write output to a file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	adapter, err := output.ForFormat(outputFormat)
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(analyzeAsOf)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	records, src, err := dataset.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d ads from %s\n", len(records), src.Name)

	ctrl, err := newController(cfg, logger)
	if err != nil {
		return err
	}

	stage, err := runAnalyzeStage(ctrl, records, asOf, resolveCredentials(credentialsFlag, cfg))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, tui.RenderSummary([]tui.StageInfo{stage}))

	return finish(ctrl, cfg, adapter)
}

// runAnalyzeStage runs Analyze with progress lines on stderr.
func runAnalyzeStage(ctrl *core.Controller, records []core.AdRecord, asOf time.Time, credentials string) (tui.StageInfo, error) {
	ctx, cancel := signalContext()
	defer cancel()

	c := ctrl.Config()
	prompt := core.BuildStrategyPrompt(core.Rank(records, c.TopN, asOf), c.Product)
	fmt.Fprintln(os.Stderr, tui.RenderStageStart("Analysis", c.AnalysisModel, len(prompt)))
	stage := tui.StartStage("Analysis", c.AnalysisModel, len(prompt))

	state, err := ctrl.Analyze(ctx, core.AnalyzeInput{Records: records, AsOf: asOf, Credentials: credentials})
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderStageFailed("Analysis", err))
		return stage, stageError("analysis", err)
	}
	stage.Complete(len(state.StrategyGuide))
	fmt.Fprintln(os.Stderr, tui.RenderStageComplete(stage))
	return stage, nil
}

// finish saves the snapshot if asked and prints the session.
func finish(ctrl *core.Controller, cfg config.Config, adapter output.Adapter) error {
	snap := output.NewSnapshot(ctrl.State(), cfg.Product)
	if saveSnapshot != "" {
		if err := output.Save(saveSnapshot, snap); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s Session saved to %s\n", tui.SuccessStyle.Render("✓"), saveSnapshot)
	}
	return output.Emit(adapter, snap, output.Config{Path: outputPath})
}

// stageError adds a hint for errors the user can act on.
func stageError(stage string, err error) error {
	var stateErr *core.StateError
	switch {
	case errors.As(err, &stateErr):
		return err
	case core.IsValidation(err):
		return fmt.Errorf("%s rejected: %w", stage, err)
	case core.IsUpstream(err):
		return fmt.Errorf("%s failed (check your API key and model): %w", stage, err)
	}
	return fmt.Errorf("%s failed: %w", stage, err)
}
