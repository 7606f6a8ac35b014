package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlxr-dev/dlxr/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, Duration(DefaultCacheTTL), cfg.Settings.CacheTTL)
	assert.Equal(t, Duration(DefaultHTTPTimeout), cfg.Settings.HTTPTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.Settings.UserAgent)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.NotEmpty(t, cfg.Settings.DlxRoot)
	assert.NotEmpty(t, cfg.Settings.ManifestPath)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Duration(DefaultCacheTTL), cfg.Settings.CacheTTL)
	})

	t.Run("overrides merge onto defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
			"settings:",
			"  dlx_root: /srv/dlx",
			"  cache_ttl: 24h",
			"  log_level: debug",
		}, "\n")), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/dlx", cfg.Settings.DlxRoot)
		assert.Equal(t, Duration(24*time.Hour), cfg.Settings.CacheTTL)
		assert.Equal(t, "debug", cfg.Settings.LogLevel)
		// Untouched fields keep their defaults.
		assert.Equal(t, DefaultUserAgent, cfg.Settings.UserAgent)
		assert.Equal(t, Duration(DefaultHTTPTimeout), cfg.Settings.HTTPTimeout)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Duration(DefaultCacheTTL), cfg.Settings.CacheTTL)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("settings: [unclosed"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, errors.ErrConfigParse)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative cache ttl", func(c *Config) { c.Settings.CacheTTL = Duration(-time.Hour) }},
		{"negative http timeout", func(c *Config) { c.Settings.HTTPTimeout = Duration(-time.Second) }},
		{"empty dlx root", func(c *Config) { c.Settings.DlxRoot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), errors.ErrConfigValidation)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.DlxRoot = "/srv/dlx"
	cfg.Settings.CacheTTL = Duration(48 * time.Hour)
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/dlx", loaded.Settings.DlxRoot)
	assert.Equal(t, Duration(48*time.Hour), loaded.Settings.CacheTTL)

	assert.ErrorIs(t, cfg.Save(""), errors.ErrEmptyConfigPath)
}
