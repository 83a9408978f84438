package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.NotEmpty(t, cfg.Database.DSN)
	assert.Equal(t, "https://graph.facebook.com/v13.0", cfg.Provider.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotZero(t, cfg.Dashboard.Timeout)
}

func TestLoadConfigRelativePath(t *testing.T) {
	cfg, err := LoadConfig("relative/path.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"port": 9090, "host": "0.0.0.0"},
		"database": {"dsn": ":memory:"},
		"webhook": {"verify_token": "file-token"},
		"dashboard": {"url": "http://dash.example.com/data"},
		"audit": {"dir": "/tmp/audit"},
		"logging": {"level": "debug", "path": "test.log"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, "file-token", cfg.Webhook.VerifyToken)
	assert.Equal(t, "http://dash.example.com/data", cfg.Dashboard.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, "https://graph.facebook.com/v13.0", cfg.Provider.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VERIFY_TOKEN", "env-token")
	t.Setenv("DASHBOARD_URL", "http://env-dash.example.com")
	t.Setenv("DATABASE_DSN", "file:env.db")
	t.Setenv("PORT", "7070")

	cfg := DefaultConfig()

	assert.Equal(t, "env-token", cfg.Webhook.VerifyToken)
	assert.Equal(t, "http://env-dash.example.com", cfg.Dashboard.URL)
	assert.Equal(t, "file:env.db", cfg.Database.DSN)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestEnvOverrideInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := DefaultConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
}
