package config

import (
	"log/slog"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://plant.example.com/")
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeRedirect, cfg.Auth.Mode)
	assert.Equal(t, "https://auth.emergentagent.com/", cfg.Auth.ProviderURL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.CallbackGuardTTL)
	assert.Equal(t, 10_000, cfg.Auth.CallbackGuardSize)
	assert.Equal(t, "https://plant.example.com", cfg.Backend.URL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreRedis, cfg.Sessions.Store)
	assert.Equal(t, 12*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.HTTP.BaseURL)
	assert.Equal(t, "batch_id", cfg.Scanner.BatchIDExpr)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, slog.LevelInfo, cfg.Observability.SlogLevel())
}

func TestAppConfig_BackendURLRequired(t *testing.T) {
	var cfg AppConfig
	require.Error(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8001")
	t.Setenv("AUTH_MODE", "MOCK")
	t.Setenv("DEV_AUTH_USER_ID", "dev-farmer")
	t.Setenv("DEV_AUTH_EMAIL", "farmer@example.com")
	t.Setenv("DEV_AUTH_ROLE", "farmer")
	t.Setenv("CALLBACK_GUARD_TTL", "90s")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "dev-farmer", cfg.Auth.DevAuth.UserID)
	assert.Equal(t, "farmer", cfg.Auth.DevAuth.Role)
	assert.Equal(t, 90*time.Second, cfg.Auth.CallbackGuardTTL)
}

func TestAppConfig_InvalidEnums(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8001")

	t.Run("auth mode", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "oauth")
		var cfg AppConfig
		require.Error(t, env.Parse(&cfg))
	})
	t.Run("session store", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "postgres")
		var cfg AppConfig
		require.Error(t, env.Parse(&cfg))
	})
}

func TestAppConfig_RedisPrefix(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8001")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("REDIS_USE_CLUSTER", "true")
	t.Setenv("REDIS_CLUSTER_NODES", "a:6379,b:6379")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, SessionStoreMemory, cfg.Sessions.Store)
	assert.True(t, cfg.Redis.UseCluster)
	assert.Equal(t, []string{"a:6379", "b:6379"}, cfg.Redis.ClusterNodes)
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	h := HTTPConfig{BaseURL: " https://plant.example.com/ ", CompressionLevel: 42}
	h.Sanitize()
	assert.Equal(t, "https://plant.example.com", h.BaseURL)
	assert.Equal(t, 9, h.CompressionLevel)

	h.CompressionLevel = -1
	h.Sanitize()
	assert.Equal(t, 1, h.CompressionLevel)
}

func TestObservabilityConfig_Sanitize(t *testing.T) {
	c := ObservabilityConfig{LogLevel: " DEBUG "}
	c.Sanitize()
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())

	c.LogLevel = "verbose"
	c.Sanitize()
	assert.Equal(t, "info", c.LogLevel)
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}

func TestScannerConfig_Sanitize(t *testing.T) {
	s := ScannerConfig{BatchIDExpr: "  "}
	s.Sanitize()
	assert.Equal(t, "batch_id", s.BatchIDExpr)
}
