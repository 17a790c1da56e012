package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/dataset"
	"github.com/dhabedank/ad-agent/internal/tui"
)

var (
	rankTop   int
	rankAsOf  string
	rankWidth int
)

// RankCmd prints the longest-running competitor ads without calling any provider.
var RankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show the longest-running competitor ads",
	Long: `Load a competitor ad export and list the ads that have run the longest.

The CSV must have Ad_Copy and Start_Date (YYYY-MM-DD) columns. Ads are ordered
by days active, longest first; ties keep file order.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	RankCmd.Flags().IntVarP(&rankTop, "top", "n", 0, "Number of ads to show (default: top_n from config)")
	RankCmd.Flags().StringVar(&rankAsOf, "as-of", "", "Rank as of this date (YYYY-MM-DD, default: today)")
	RankCmd.Flags().IntVar(&rankWidth, "width", 80, "Maximum ad copy width")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	asOf, err := parseAsOf(rankAsOf)
	if err != nil {
		return err
	}

	records, src, err := dataset.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}

	n := cfg.TopN
	if cmd.Flags().Changed("top") {
		n = rankTop
	}
	ranked := core.Rank(records, n, asOf)

	fmt.Printf("%s  %s\n", tui.TitleStyle.Render("Top competitor ads"), tui.HelpStyle.Render(fmt.Sprintf("%d of %d from %s", len(ranked), len(records), src.Name)))
	fmt.Println(tui.RenderRanking(ranked, rankWidth))
	return nil
}
