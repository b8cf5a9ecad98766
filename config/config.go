// Package config resolves cheesegates settings from flags, environment,
// an optional .env file and an optional cheesegates.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// CHEESEGATES_LEVELS_DIR.
const EnvPrefix = "CHEESEGATES"

// Config is the resolved configuration.
type Config struct {
	// LevelsDir is the level content directory. Empty means the built-in levels.
	LevelsDir  string `mapstructure:"levels_dir" validate:"omitempty,dir"`
	LogLevel   string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	Permissive bool   `mapstructure:"permissive"`
	// Seed and Samples drive the random solve-rate estimate of `check`.
	Seed    int64 `mapstructure:"seed"`
	Samples int   `mapstructure:"samples" validate:"gte=0"`
}

var validate = validator.New()

// New returns a viper instance with defaults, environment binding and the
// standard config file search path.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("levels_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("permissive", false)
	v.SetDefault("seed", 1)
	v.SetDefault("samples", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cheesegates")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cheesegates"))
	}
	return v
}

// Load reads the config file (file if given, otherwise the first
// cheesegates.yaml on the search path), then unmarshals and validates.
// A missing default config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
