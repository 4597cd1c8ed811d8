// Package config reads telescope's environment configuration.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	// Database is the run history path. Empty disables recording.
	Database string `env:"TELESCOPE_DB"`

	// Format is the output format, "text" or "json".
	Format string `env:"TELESCOPE_FORMAT" envDefault:"text"`

	// Verbose enables debug logging.
	Verbose bool `env:"TELESCOPE_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that Format names a supported output format.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid TELESCOPE_FORMAT %q: must be 'text' or 'json'", c.Format)
	}
}
