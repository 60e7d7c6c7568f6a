package config

import (
	"errors"
	"fmt"
	"kalah/meta"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Depth      int           `mapstructure:"depth"`
	TurnAware  bool          `mapstructure:"turn_aware"`
	Evaluation string        `mapstructure:"evaluation"` // "store-lead" or "stores"
	BotDelay   time.Duration `mapstructure:"bot_delay"`
	MaxTurns   int           `mapstructure:"max_turns"`
	NumGames   int           `mapstructure:"num_games"`
	Seed       uint64        `mapstructure:"seed"`
	Addr       string        `mapstructure:"addr"`
	OutputDir  string        `mapstructure:"output_dir"`
	LogLevel   string        `mapstructure:"log_level"`
}

const (
	EvaluationStoreLead = "store-lead"
	EvaluationStores    = "stores"
)

// Load reads the configuration from defaults, an optional file at path and
// KALAH_* environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("depth", meta.DEPTH)
	v.SetDefault("turn_aware", false)
	v.SetDefault("evaluation", EvaluationStoreLead)
	v.SetDefault("bot_delay", meta.BOT_DELAY)
	v.SetDefault("max_turns", meta.MAX_TURNS)
	v.SetDefault("num_games", meta.NUM_GAMES)
	v.SetDefault("seed", 1)
	v.SetDefault("addr", meta.ADDR)
	v.SetDefault("output_dir", meta.OUTPUT_DIR)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("kalah")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Depth < 1 {
		errs = append(errs, fmt.Errorf("depth must be at least 1, got %d", c.Depth))
	}
	if c.Evaluation != EvaluationStoreLead && c.Evaluation != EvaluationStores {
		errs = append(errs, fmt.Errorf("unknown evaluation %q", c.Evaluation))
	}
	if c.BotDelay < 0 {
		errs = append(errs, fmt.Errorf("bot delay must not be negative, got %s", c.BotDelay))
	}
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max turns must be at least 1, got %d", c.MaxTurns))
	}
	if c.NumGames < 1 {
		errs = append(errs, fmt.Errorf("num games must be at least 1, got %d", c.NumGames))
	}
	return errors.Join(errs...)
}
