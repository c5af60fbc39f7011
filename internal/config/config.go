// Package config loads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"stockroom/internal/bridge"
)

// Environment labels the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the full process configuration. Cobra flags may override
// individual fields after loading.
type Config struct {
	Environment Environment `envconfig:"STOCKROOM_ENV" default:"development"`

	// Collection is the remote collection name every command targets.
	Collection string `envconfig:"STOCKROOM_COLLECTION" default:"items"`

	// LogPath receives structured logs while the TUI owns the terminal.
	// Empty means no log sink for TUI runs (CLI runs log to stderr).
	LogPath string `envconfig:"STOCKROOM_LOG"`

	Bridge bridge.Settings
}

// Load reads .env (best effort) and then the environment.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the environment is production.
func (e Environment) IsProduction() bool { return e == Production }
