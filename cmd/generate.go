package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/dataset"
	"github.com/dhabedank/ad-agent/internal/output"
	"github.com/dhabedank/ad-agent/internal/tui"
)

var (
	fromSnapshot  string
	generateBrand string
)

// GenerateCmd runs stage 2, running stage 1 first unless a snapshot is given.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write ad creatives from a strategy guide",
	Long: `Generate ad creatives for a brand from the strategy guide.

With --from, the guide comes from a snapshot written by "analyze --save" and no
analysis call is made. Without it, the competitor ads are analyzed first.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addStageFlags(GenerateCmd)
	GenerateCmd.Flags().StringVar(&fromSnapshot, "from", "", "Resume from a saved session snapshot")
	GenerateCmd.Flags().StringVarP(&generateBrand, "brand", "b", "", "Brand to write for (default: product.brand from config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	adapter, err := output.ForFormat(outputFormat)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctrl, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	credentials := resolveCredentials(credentialsFlag, cfg)

	var stages []tui.StageInfo
	if fromSnapshot != "" {
		snap, err := output.Load(fromSnapshot)
		if err != nil {
			return err
		}
		if err := ctrl.Restore(snap.State); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Resumed session %s (%s)\n", snap.SessionID, ctrl.State().Phase)
	} else {
		records, src, err := dataset.Resolve(cfg.DataFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded %d ads from %s\n", len(records), src.Name)

		stage, err := runAnalyzeStage(ctrl, records, time.Now(), credentials)
		if err != nil {
			return err
		}
		stages = append(stages, stage)
	}

	stage, err := runGenerateStage(ctrl, generateBrand, credentials)
	if err != nil {
		return err
	}
	stages = append(stages, stage)
	fmt.Fprintln(os.Stderr, tui.RenderSummary(stages))

	return finish(ctrl, cfg, adapter)
}

func runGenerateStage(ctrl *core.Controller, brand, credentials string) (tui.StageInfo, error) {
	ctx, cancel := signalContext()
	defer cancel()

	c := ctrl.Config()
	effective := brand
	if effective == "" {
		effective = c.Product.Brand
	}
	prompt := core.BuildAdPrompt(ctrl.State().StrategyGuide, effective, c.Product)
	fmt.Fprintln(os.Stderr, tui.RenderStageStart("Generation", c.GenerationModel, len(prompt)))
	stage := tui.StartStage("Generation", c.GenerationModel, len(prompt))

	state, err := ctrl.Generate(ctx, core.GenerateInput{Brand: brand, Credentials: credentials})
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderStageFailed("Generation", err))
		return stage, stageError("generation", err)
	}
	stage.Complete(len(state.GeneratedAds))
	fmt.Fprintln(os.Stderr, tui.RenderStageComplete(stage))
	return stage, nil
}
