package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LOFTY_LAUNCHER_DATA_DIR",
	"LOFTY_LAUNCHER_SENTRY_DSN",
	"LOFTY_LAUNCHER_DEBUG",
	"LOFTY_LAUNCHER_MIN_LINGER",
	"LOFTY_LAUNCHER_OAUTH_CLIENT_ID",
	"LOFTY_LAUNCHER_OAUTH_TOKEN_URL",
}

// clearEnv unsets the launcher variables and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Empty(t, cfg.DataDir)
	assert.False(t, cfg.Debug)
	assert.Equal(t, DefaultMinLinger, cfg.MinLinger)
	assert.False(t, cfg.OAuth.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"LOFTY_LAUNCHER_DATA_DIR=/srv/lofty\n"+
			"LOFTY_LAUNCHER_DEBUG=true\n"+
			"LOFTY_LAUNCHER_MIN_LINGER=2s\n"+
			"LOFTY_LAUNCHER_OAUTH_CLIENT_ID=launcher\n"+
			"LOFTY_LAUNCHER_OAUTH_TOKEN_URL=https://auth.example/token\n",
	), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/srv/lofty", cfg.DataDir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.MinLinger)
	assert.True(t, cfg.OAuth.Enabled())
	assert.Equal(t, "https://auth.example/token", cfg.OAuth.TokenURL)
}

func TestProcessEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOFTY_LAUNCHER_DATA_DIR", "/from/env")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOFTY_LAUNCHER_DATA_DIR=/from/file\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
}

func TestLoadRejectsBadLinger(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOFTY_LAUNCHER_MIN_LINGER", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
