package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dhabedank/ad-agent/internal/config"
	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/llm"
	"github.com/dhabedank/ad-agent/internal/logging"
)

// Persistent flags shared by every command.
var (
	configFile   string
	providerFlag string
	modelFlag    string
	dataFlag     string
	logFileFlag  string
	logLevelFlag string
)

// RegisterPersistentFlags adds the shared flags to the root command.
func RegisterPersistentFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&configFile, "config", "", "Config file (default: .ad-agent.yaml, then ~/.ad-agent.yaml)")
	f.StringVar(&providerFlag, "provider", "", "Completion provider (groq/openai/anthropic)")
	f.StringVarP(&modelFlag, "model", "m", "", "Model for both stages (provider-specific)")
	f.StringVarP(&dataFlag, "data", "d", "", "Competitor ads CSV (default: t1.csv)")
	f.StringVar(&logFileFlag, "log-file", "", "Write JSON logs to this file")
	f.StringVar(&logLevelFlag, "log-level", "", "Log level (debug/info/warn/error)")
}

// loadConfig reads the config file and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Find(configFile))
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") && providerFlag != cfg.Provider {
		// Models from the file belong to the old provider.
		cfg.Provider = providerFlag
		cfg.Model = llm.DefaultModel(llm.Provider(providerFlag))
		cfg.AnalysisModel = ""
		cfg.GenerationModel = ""
		cfg.BaseURL = ""
	}
	if flags.Changed("model") {
		cfg.Model = modelFlag
		cfg.AnalysisModel = ""
		cfg.GenerationModel = ""
	}
	if flags.Changed("data") {
		cfg.DataFile = dataFlag
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFileFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newController builds the provider adapter and the session controller.
func newController(cfg config.Config, logger *zap.Logger) (*core.Controller, error) {
	adapter, err := llm.NewAdapter(cfg.LLM())
	if err != nil {
		return nil, err
	}
	return core.NewController(adapter, cfg.Controller(), logger), nil
}

func newLogger(cfg config.Config, quiet bool) (*zap.Logger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Quiet: quiet})
}

// resolveCredentials prefers the flag, then the provider's environment variable.
func resolveCredentials(flagValue string, cfg config.Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return llm.CredentialsFromEnv(llm.Provider(cfg.Provider))
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseAsOf reads a --as-of flag value; empty means now.
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &core.InputValidationError{Field: "as-of", Message: fmt.Sprintf("%q is not a date (expected YYYY-MM-DD)", value)}
	}
	return t, nil
}
