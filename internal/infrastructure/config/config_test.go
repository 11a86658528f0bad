package config

import (
	"testing"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/recipes.db", cfg.Storage.Path)
	assert.Equal(t, units.Metric, cfg.DefaultSystem())
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "AIzaSyExampleKey1234")
	t.Setenv("DATABASE_PATH", "/tmp/cooking.db")
	t.Setenv("UNIT_SYSTEM", "us")
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_CACHE_TTL", "5m")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REMOTE_ENABLED", "true")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "AIzaSyExampleKey1234", cfg.Gemini.APIKey)
	assert.NotContains(t, cfg.MaskedAPIKey(), "ExampleKey")
	assert.Equal(t, "/tmp/cooking.db", cfg.Storage.Path)
	assert.Equal(t, units.US, cfg.DefaultSystem())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "redis:6379", cfg.Remote.Addr)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"port zero":           {"APP_SERVER_PORT": "0"},
		"cache size":          {"APP_CACHE_MAX_SIZE": "0"},
		"cache ttl":           {"APP_CACHE_TTL": "0s"},
		"unit system":         {"UNIT_SYSTEM": "imperial"},
		"empty sqlite path":   {"DATABASE_PATH": " "},
		"unknown driver":      {"STORAGE_DRIVER": "postgres"},
		"remote without addr": {"REMOTE_ENABLED": "true", "REDIS_ADDR": " "},
		"sync concurrency":    {"APP_SYNC_CONCURRENCY": "0"},
		"rate limit":          {"APP_RATE_LIMIT_REQUESTS": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestValidateConfig_MemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}
