package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the Config fields settable from the environment.
type envConfig struct {
	APIBaseURL     string        `env:"HIREBOARD_API_URL"`
	RequestTimeout time.Duration `env:"HIREBOARD_REQUEST_TIMEOUT"`
}

// parseEnv overlays cfg with values from environment variables. Unset
// variables leave the current values untouched.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	return nil
}
