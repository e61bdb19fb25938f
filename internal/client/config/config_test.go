package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, EnvDevelopment, c.Environment)
	assert.Empty(t, c.APIBaseURL)
	assert.False(t, c.MockAuth)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "data/tiernerd.db", c.DatabasePath)
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	want := &Config{
		Environment:         EnvDevelopment,
		APIBaseURL:          DevAPIBaseURL,
		RequestTimeout:      10 * time.Second,
		OnlineCheckInterval: 3 * time.Second,
		DatabasePath:        "data/tiernerd.db",
		LogLevel:            "info",
	}
	assert.Empty(t, cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})))
}

func TestLoad_ProductionDefaults(t *testing.T) {
	cfg, err := Load([]string{"-e", "production"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProdAPIBaseURL, cfg.APIBaseURL)
}

func TestLoad_MockAuth(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want bool
	}{
		{name: "env in development", env: map[string]string{"TIERNERD_USE_MOCK_AUTH": "true"}, want: true},
		{name: "flag in development", args: []string{"-mock"}, want: true},
		{name: "flag overrides env", args: []string{"-mock=false"}, env: map[string]string{"TIERNERD_USE_MOCK_AUTH": "true"}, want: false},
		{name: "forced off in production", args: []string{"-mock", "-e", "production"}, want: false},
		{name: "forced off by env production", env: map[string]string{"TIERNERD_ENV": "production", "TIERNERD_USE_MOCK_AUTH": "1"}, want: false},
		{name: "off by default", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.args, envOf(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MockAuth)
		})
	}
}

func TestLoad_DiscoveredURLOnlyInDevelopment(t *testing.T) {
	env := map[string]string{"TIERNERD_API_URL": "http://192.168.1.20:8000/"}

	cfg, err := Load(nil, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.20:8000", cfg.APIBaseURL)

	cfg, err = Load([]string{"-e", "production"}, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, ProdAPIBaseURL, cfg.APIBaseURL)

	cfg, err = Load([]string{"-e", "production", "-u", "https://staging.tiernerd.app"}, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, "https://staging.tiernerd.app", cfg.APIBaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown environment", args: []string{"-e", "staging"}},
		{name: "bad mock env", env: map[string]string{"TIERNERD_USE_MOCK_AUTH": "maybe"}},
		{name: "zero timeout", args: []string{"-t", "0"}},
		{name: "non numeric interval", args: []string{"-i", "abc"}},
		{name: "empty database path", args: []string{"-d", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, envOf(tt.env))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
