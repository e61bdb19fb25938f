package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DevAPIBaseURL  = "http://localhost:8000"
	ProdAPIBaseURL = "https://api.tiernerd.app"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the tiernerd client.
//
// Fields:
//   - Environment: "development" or "production".
//   - APIBaseURL: root of the HTTP API; defaults per environment when empty.
//   - MockAuth: sign in without a backend; only honored in development.
//   - RequestTimeout: upper bound for each HTTP request.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: SQLite file holding the stored credentials.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Environment         string
	APIBaseURL          string
	MockAuth            bool
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DatabasePath        string
	LogLevel            string

	// discoveredURL is the base URL taken from TIERNERD_API_URL.
	discoveredURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Environment = EnvDevelopment
	c.APIBaseURL = ""
	c.MockAuth = false
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "data/tiernerd.db"
	c.LogLevel = "info"
}

func (c *Config) IsDevelopment() bool { return c.Environment == EnvDevelopment }

// Finalize fills environment dependent defaults and checks the result.
// Mock auth and TIERNERD_API_URL are dropped outside development.
func (c *Config) Finalize() error {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, c.Environment)
	}

	if !c.IsDevelopment() {
		c.MockAuth = false
		if c.discoveredURL != "" && c.APIBaseURL == c.discoveredURL {
			c.APIBaseURL = ""
		}
	}

	if c.APIBaseURL == "" {
		if c.IsDevelopment() {
			c.APIBaseURL = DevAPIBaseURL
		} else {
			c.APIBaseURL = ProdAPIBaseURL
		}
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}
	return nil
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then the environment, then flags. Later sources take precedence.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}
