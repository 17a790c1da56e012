package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dhabedank/ad-agent/cmd"
	"github.com/dhabedank/ad-agent/internal/config"
	"github.com/dhabedank/ad-agent/internal/version"
)

var appVersion = "0.1.0"

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "ad-agent",
		Short: "Turn long-running competitor ads into a strategy guide and new ad creatives",
		Long: `ad-agent ranks a competitor ad export by how long each ad has run, asks an
LLM to distill the top ads into a strategy guide, and then writes new ad
creatives for your brand from that guide.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			notices(c)
		},
	}
	cmd.RegisterPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		cmd.RunCmd,
		cmd.RankCmd,
		cmd.AnalyzeCmd,
		cmd.GenerateCmd,
		cmd.ServeCmd,
		cmd.SetupCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// notices prints the first-run welcome and update notice on stderr.
// The interactive session skips them since the alt screen would hide them.
func notices(c *cobra.Command) {
	if c.Name() == "run" {
		return
	}
	stateDir := version.StateDir()
	if version.IsFirstRun(config.HomePath(), stateDir) && c.Name() != "setup" {
		version.PrintFirstRunNotice(os.Stderr, stateDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	version.PrintUpdateNotice(os.Stderr, version.NewChecker().Check(ctx, appVersion))
}
