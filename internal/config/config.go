// Package config loads and validates ad-agent settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/llm"
)

// FileName is looked up in the working directory, then the home directory.
const FileName = ".ad-agent.yaml"

// Config is the full application configuration.
// All fields are optional in the file; Default fills the gaps.
type Config struct {
	Provider        string  `yaml:"provider" validate:"required,oneof=groq openai anthropic"`
	Model           string  `yaml:"model,omitempty"`
	AnalysisModel   string  `yaml:"analysis_model,omitempty"`
	GenerationModel string  `yaml:"generation_model,omitempty"`
	BaseURL         string  `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Temperature     float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds  int     `yaml:"timeout_seconds" validate:"gt=0,lte=600"`
	MaxTokens       int     `yaml:"max_tokens,omitempty" validate:"gte=0"`

	TopN     int    `yaml:"top_n" validate:"gt=0,lte=100"`
	DataFile string `yaml:"data_file,omitempty"`

	Product core.Product `yaml:"product"`

	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	Listen         string   `yaml:"listen,omitempty" validate:"omitempty,hostname_port"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" validate:"dive,url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:       string(llm.ProviderGroq),
		Model:          llm.DefaultModel(llm.ProviderGroq),
		Temperature:    0.6,
		TimeoutSeconds: int(core.DefaultTimeout / time.Second),
		TopN:           core.DefaultTopN,
		Product:        core.DefaultProduct(),
		LogLevel:       "info",
		Listen:         "localhost:8080",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Find returns the config path to use: explicit, then ./.ad-agent.yaml,
// then ~/.ad-agent.yaml. Returns "" when none exists.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, FileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	return ""
}

// HomePath is where the setup wizard writes its configuration.
func HomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A provider switch without a model means that provider's default model.
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel(llm.Provider(cfg.Provider))
	}
	if cfg.Product.Brand == "" {
		cfg.Product.Brand = core.DefaultProduct().Brand
	}
	if cfg.Product.Category == "" {
		cfg.Product.Category = core.DefaultProduct().Category
	}
	if cfg.Product.CoreMessage == "" {
		cfg.Product.CoreMessage = core.DefaultProduct().CoreMessage
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Timeout returns the completion timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LLM converts the settings for the llm package.
func (c Config) LLM() llm.Config {
	return llm.Config{
		Provider:        llm.Provider(c.Provider),
		Model:           c.Model,
		AnalysisModel:   c.AnalysisModel,
		GenerationModel: c.GenerationModel,
		BaseURL:         c.BaseURL,
		Temperature:     c.Temperature,
		Timeout:         c.Timeout(),
		MaxTokens:       c.MaxTokens,
	}
}

// Controller converts the settings for core.NewController.
func (c Config) Controller() core.ControllerConfig {
	l := c.LLM()
	return core.ControllerConfig{
		TopN:            c.TopN,
		AnalysisModel:   l.ModelForStage("analysis"),
		GenerationModel: l.ModelForStage("generation"),
		Temperature:     c.Temperature,
		Timeout:         c.Timeout(),
		Product:         c.Product,
	}
}
