// Package config loads the launcher's environment configuration. Values come
// from the process environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMinLinger is how long the launch screen stays up before the game is
// reported as loaded.
const DefaultMinLinger = 5 * time.Second

// Config holds environment driven settings.
type Config struct {
	// DataDir overrides the launcher storage directory.
	DataDir string

	// SentryDSN enables crash reporting when set.
	SentryDSN string

	// Debug forces debug logging.
	Debug bool

	// MinLinger is the minimum time between process start and the "ready"
	// notification.
	MinLinger time.Duration

	// OAuth configures access token refresh. Refresh is disabled when
	// ClientID or TokenURL is empty.
	OAuth OAuthConfig
}

// OAuthConfig holds the token endpoint used to refresh stored accounts.
type OAuthConfig struct {
	ClientID string
	TokenURL string
}

// Enabled reports whether token refresh is configured.
func (c OAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.TokenURL != ""
}

// Load reads the given .env files (default ".env") into the environment
// without overriding variables that are already set, then builds a Config.
// Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	minLinger := DefaultMinLinger
	if raw := strings.TrimSpace(os.Getenv("LOFTY_LAUNCHER_MIN_LINGER")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOFTY_LAUNCHER_MIN_LINGER %q: %w", raw, err)
		}
		minLinger = d
	}

	return &Config{
		DataDir:   strings.TrimSpace(os.Getenv("LOFTY_LAUNCHER_DATA_DIR")),
		SentryDSN: strings.TrimSpace(os.Getenv("LOFTY_LAUNCHER_SENTRY_DSN")),
		Debug:     parseBool(os.Getenv("LOFTY_LAUNCHER_DEBUG")),
		MinLinger: minLinger,
		OAuth: OAuthConfig{
			ClientID: strings.TrimSpace(os.Getenv("LOFTY_LAUNCHER_OAUTH_CLIENT_ID")),
			TokenURL: strings.TrimSpace(os.Getenv("LOFTY_LAUNCHER_OAUTH_TOKEN_URL")),
		},
	}, nil
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
