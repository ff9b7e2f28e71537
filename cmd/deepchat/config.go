package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
)

const envPrefix = "DEEPCHAT"

// settings is the merged view of flags, environment and config file.
type settings struct {
	BaseURL      string        `mapstructure:"base-url"`
	Model        string        `mapstructure:"model"`
	System       string        `mapstructure:"system"`
	Stream       bool          `mapstructure:"stream"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Retries      int           `mapstructure:"retries"`
	LogLevel     string        `mapstructure:"log-level"`
	LogFormat    string        `mapstructure:"log-format"`
	HTTPLog      string        `mapstructure:"http-log"`
	MetricsAddr  string        `mapstructure:"metrics-addr"`
	HistoryDB    string        `mapstructure:"history-db"`
	Conversation string        `mapstructure:"conversation"`
	Output       string        `mapstructure:"output"`

	Generation ai.GenerationConfig `mapstructure:"-"`
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("base-url", "", "API base URL (default https://api.deepinfra.com)")
	flags.Duration("timeout", 2*time.Minute, "per-attempt request timeout, 0 to disable")
	flags.Int("retries", 3, "retries on transient failures, 0 to disable")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("http-log", "off", "http logging: off, minimal, standard, verbose")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address while running")
}

func addCompletionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("model", "m", "", "model full name (default: first model of the catalogue)")
	flags.StringP("system", "s", "", "system prompt")
	flags.Bool("stream", true, "stream the answer as it is generated")
	flags.Int("max-tokens", 0, "completion token budget")
	flags.Float32("temperature", 0, "sampling temperature")
	flags.Float32("top-p", 0, "nucleus sampling threshold")
	flags.Int("top-k", 0, "top-k sampling")
	flags.Float32("min-p", 0, "min-p sampling threshold")
}

// loadSettings binds cmd's flags into a fresh viper instance and resolves
// every setting. Flags win over DEEPCHAT_* variables, which win over the
// config file.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	var resolved settings
	if err := v.Unmarshal(&resolved); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}

	// Sampling parameters are sent only when set somewhere, so the server
	// defaults apply otherwise.
	if v.IsSet("max-tokens") {
		resolved.Generation.MaxTokens = utils.Ptr(v.GetInt("max-tokens"))
	}
	if v.IsSet("temperature") {
		resolved.Generation.Temperature = utils.Ptr(float32(v.GetFloat64("temperature")))
	}
	if v.IsSet("top-p") {
		resolved.Generation.TopP = utils.Ptr(float32(v.GetFloat64("top-p")))
	}
	if v.IsSet("top-k") {
		resolved.Generation.TopK = utils.Ptr(v.GetInt("top-k"))
	}
	if v.IsSet("min-p") {
		resolved.Generation.MinP = utils.Ptr(float32(v.GetFloat64("min-p")))
	}

	return &resolved, nil
}
