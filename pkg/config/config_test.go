package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "admin@hostelflow.com", cfg.Auth.Email)
	assert.Equal(t, "admin123", cfg.Auth.Password)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Insight.Model)
	assert.InDelta(t, 0.7, cfg.Insight.Temperature, 0.0001)
	assert.Equal(t, 1200*time.Millisecond, cfg.Latency.Login)
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.BulkAdd)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("LATENCY_ENABLED", "false")
	t.Setenv("LATENCY_LOGIN", "not-a-duration")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.False(t, cfg.Latency.Enabled)
	assert.Equal(t, 1200*time.Millisecond, cfg.Latency.Login)
	assert.Equal(t, "legacy-key", cfg.Insight.APIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadStoreDriverIsCaseInsensitive(t *testing.T) {
	t.Setenv("STORE_DRIVER", "PGX")
	t.Setenv("REPORT_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePgx, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Reports.Workers)
	assert.True(t, cfg.Store.SeedOnStart)
}
