package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":3001", cfg.Server.Addr())
	assert.Zero(t, cfg.Proxy.FetchTimeout())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("RULESET", "rules/a.yml;rules/b")
	t.Setenv("HTTP_TIMEOUT", "15")
	t.Setenv("LOG_URLS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "rules/a.yml;rules/b", cfg.Proxy.Ruleset)
	assert.Equal(t, 15*time.Second, cfg.Proxy.FetchTimeout())
	assert.True(t, cfg.Proxy.LogURLs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("negative", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
