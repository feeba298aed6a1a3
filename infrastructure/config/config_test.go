package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "materials", cfg.StorageBucket)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(
		"serverAddress: \":7070\"\nlogLevel: debug\ncorsOrigins:\n  - https://app.example.com\n"), 0o644))
	t.Setenv("CONFIG_FILE", overlay)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddress)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfig_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", Production)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_SessionTTL(t *testing.T) {
	cfg := &Config{PlatformBaseURL: "http://localhost:5000", SessionTTL: 0, Environment: Development}
	assert.Error(t, cfg.Validate())
}
