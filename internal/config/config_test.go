package config_test

import (
	"testing"
	"time"

	"github.com/clearharbor/vaultgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 3, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.BlockDuration)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.SweepInterval)
}

func TestLoad_MissingScriptURLIsNotFatal(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Backend.ScriptURL)
}

func TestLoad_ScriptURLFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPS_SCRIPT_URL", "https://script.example.com/exec")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "https://script.example.com/exec", cfg.Backend.ScriptURL)
}

func TestLoad_RateLimitOverrides(t *testing.T) {
	t.Setenv("LOGIN_MAX_FAILED_ATTEMPTS", "5")
	t.Setenv("LOGIN_BLOCK_DURATION", "30m")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.RateLimit.BlockDuration)
}

func TestLoad_RejectsZeroMaxAttempts(t *testing.T) {
	t.Setenv("LOGIN_MAX_FAILED_ATTEMPTS", "0")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("LOGIN_BLOCK_DURATION", "not-a-duration")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.BlockDuration)
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}

func TestLoad_ProductionOriginsFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://vault.example.com")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://vault.example.com"}, cfg.Server.AllowedOrigins)
}
