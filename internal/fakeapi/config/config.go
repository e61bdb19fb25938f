// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the fake API server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside a laptop.
//   - AccessTokenValidityDuration: lifetime of issued access tokens.
//   - ShutdownTimeout: grace period for in-flight requests on stop.
//   - LogLevel / LogFormat: slog level and handler ("json" or "text").
type Config struct {
	ListenAddr                  string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ShutdownTimeout             time.Duration
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: secret key is empty", ErrInvalidConfig)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("%w: access token validity must be positive", ErrInvalidConfig)
	}
	return nil
}

// Load applies defaults, then the JSON file named by -c/-config, then flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
