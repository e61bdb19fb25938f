package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	envEnvironment = "TIERNERD_ENV"
	envMockAuth    = "TIERNERD_USE_MOCK_AUTH"
	envAPIURL      = "TIERNERD_API_URL"
)

// parseEnv overlays values from environment variables. Unset or empty
// variables leave cfg untouched.
func parseEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	if v := strings.TrimSpace(getenv(envEnvironment)); v != "" {
		cfg.Environment = v
	}

	if v := strings.TrimSpace(getenv(envMockAuth)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, envMockAuth, v)
		}
		cfg.MockAuth = b
	}

	if v := strings.TrimSpace(getenv(envAPIURL)); v != "" {
		cfg.APIBaseURL = v
		cfg.discoveredURL = v
	}
	return nil
}
