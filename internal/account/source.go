package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getsentry/sentry-go"
	"golang.org/x/oauth2"

	"lofty-launcher/internal/config"
)

// TokenObserver is a callback function that is invoked when a token changes.
type TokenObserver func(*oauth2.Token)

// watchTokenSource wraps an oauth2.TokenSource and notifies an observer when
// the token changes. It is safe for concurrent use.
type watchTokenSource struct {
	mux      sync.Mutex
	src      oauth2.TokenSource
	observer TokenObserver
	prev     *oauth2.Token
}

// tokenEqual compares two tokens on their access token, refresh token and expiry.
func tokenEqual(a, b *oauth2.Token) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AccessToken == b.AccessToken &&
		a.RefreshToken == b.RefreshToken &&
		a.Expiry.Equal(b.Expiry)
}

// Token retrieves a token from the underlying source. If the token has changed
// from the previous retrieval, the observer callback is invoked with the new token.
func (w *watchTokenSource) Token() (*oauth2.Token, error) {
	w.mux.Lock()
	defer w.mux.Unlock()

	tok, err := w.src.Token()
	if err != nil {
		return nil, err
	}

	if !tokenEqual(tok, w.prev) {
		w.prev = tok
		w.observer(tok)
	}

	return tok, nil
}

// oauthConfig builds the refresh-only oauth2 configuration.
func oauthConfig(cfg config.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID: cfg.ClientID,
		Endpoint: oauth2.Endpoint{TokenURL: cfg.TokenURL},
	}
}

// TokenSource returns a source that refreshes the account's token through
// the configured endpoint and saves every new token back to the store.
func (s *Store) TokenSource(ctx context.Context, cfg config.OAuthConfig, a *Account) oauth2.TokenSource {
	return &watchTokenSource{
		src:  oauthConfig(cfg).TokenSource(ctx, a.Token),
		prev: a.Token,
		observer: func(tok *oauth2.Token) {
			slog.Info("account token refreshed", "uuid", a.UUID)
			updated := *a
			updated.Token = tok
			if err := s.Save(&updated); err != nil {
				sentry.CaptureException(err)
				slog.Error("unable to persist refreshed token", "uuid", a.UUID, "error", err)
			}
		},
	}
}

// LaunchUser returns the launch context for an account, refreshing its access
// token first when refresh is configured.
func (s *Store) LaunchUser(ctx context.Context, cfg config.OAuthConfig, uuid string) (User, error) {
	a, err := s.Get(uuid)
	if err != nil {
		return User{}, err
	}

	if !cfg.Enabled() || a.Token == nil || a.Token.RefreshToken == "" {
		return a.User(), nil
	}

	tok, err := s.TokenSource(ctx, cfg, a).Token()
	if err != nil {
		return User{}, fmt.Errorf("unable to refresh token for %s: %w", a.DisplayName, err)
	}

	u := a.User()
	u.AccessToken = tok.AccessToken
	return u, nil
}
