package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		ConfigPathEnv, "SERVER_HOST", "SERVER_PORT", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_SERVICE_NAME", "OTEL_ENVIRONMENT", "OTEL_ENABLED", "STOREFRONT_BACKEND_URL",
		"STOREFRONT_TIMEOUT", "STOREFRONT_SEARCH_SETTLE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Client.SearchSettle)
	assert.Equal(t, "http://localhost:8082/api/v1", cfg.Client.BaseURL)
	assert.False(t, cfg.OTLP.Enabled)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "storefront.yaml")
	content := `
client:
  base_url: http://backend.internal:9000/api/v1
  search_settle: 250ms
log:
  level: debug
otlp:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv(ConfigPathEnv, path)
	t.Setenv("STOREFRONT_SEARCH_SETTLE", "300ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000/api/v1", cfg.Client.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.SearchSettle)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.OTLP.Enabled)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing file", env: map[string]string{ConfigPathEnv: "/does/not/exist.yaml"}},
		{name: "bad duration", env: map[string]string{"STOREFRONT_TIMEOUT": "soon"}},
		{name: "bad bool", env: map[string]string{"OTEL_ENABLED": "maybe"}},
		{name: "relative url", env: map[string]string{"STOREFRONT_BACKEND_URL": "/api/v1"}},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestValidate_SettleMustBePositive(t *testing.T) {
	cfg := Default()
	cfg.Client.SearchSettle = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_settle")
}
