package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, values map[string]any) {
	t.Helper()

	dir := t.TempDir()
	b, err := yaml.Marshal(values)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), b, 0o644))

	t.Chdir(dir)
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfigFile(t, map[string]any{})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	writeConfigFile(t, map[string]any{
		"PORT":      "9999",
		"DB_NAME":   "listhub_test",
		"PAGE_SIZE": 25,
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "listhub_test", cfg.DBName)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestConfigValidate(t *testing.T) {
	base := Config{
		Port:      "5001",
		JWTSecret: "a-perfectly-fine-development-secret",
		PageSize:  10,
		Env:       "development",
	}

	t.Run("valid development config", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := base
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive page size", func(t *testing.T) {
		cfg := base
		cfg.PageSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default jwt secret", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		cfg.DBPassword = "sufficiently-strong-password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default db password", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "this-secret-is-at-least-32-characters-long"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("hardened production config passes", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "this-secret-is-at-least-32-characters-long"
		cfg.DBPassword = "sufficiently-strong-password"
		cfg.DBSSLMode = "require"
		assert.NoError(t, cfg.Validate())
	})
}
