package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tiernerd/internal/flagx"
	"github.com/dmitrijs2005/tiernerd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" from zero, so a file only overrides what it names.
type JsonConfig struct {
	Environment         *string         `json:"environment"`
	APIBaseURL          *string         `json:"api_base_url"`
	MockAuth            *bool           `json:"mock_auth"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        *string         `json:"database_path"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file given by -c or -config in args.
// Without either flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	if jc.Environment != nil {
		cfg.Environment = *jc.Environment
	}
	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.MockAuth != nil {
		cfg.MockAuth = *jc.MockAuth
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
