// Package config defines the process configuration, loaded once at startup
// from the environment and immutable thereafter.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings of the promotiq service.
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"promotiq.db"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// BatchSize bounds how many variant codes one apply command carries.
	BatchSize int `envconfig:"BATCH_SIZE" default:"100"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	return cfg, nil
}
