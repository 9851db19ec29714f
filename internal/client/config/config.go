package config

import "time"

// Config holds runtime settings for the hirectl client.
//
// Fields:
//   - APIBaseURL: base URL of the HireBoard backend. Defaults to the local
//     development proxy; production deployments point it at the real API.
//   - RequestTimeout: client-side timeout applied to every request.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config: defaults first, then overlays from JSON
// (if a config file was given), environment variables, and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
