// Package config loads runtime configuration for the tiernerd client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment: TIERNERD_ENV, TIERNERD_USE_MOCK_AUTH, TIERNERD_API_URL.
//  4. Command-line flags, which override earlier values.
//
// (*Config).Finalize then applies the per-environment base URL and turns
// mock auth off outside development. TIERNERD_API_URL is a development-only
// override and is ignored in production unless a flag or file sets the URL.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "environment": "development",
//	  "api_base_url": "http://localhost:8000",
//	  "mock_auth": false,
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "database_path": "data/tiernerd.db",
//	  "log_level": "info"
//	}
package config
