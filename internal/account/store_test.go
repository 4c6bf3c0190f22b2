package account

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"lofty-launcher/internal/config"
)

func newAccount(uuid, name string, tok *oauth2.Token) *Account {
	return &Account{UUID: uuid, DisplayName: name, Type: TypeMicrosoft, Token: tok}
}

func TestStoreRoundTrip(t *testing.T) {
	gokeyring.MockInit()
	path := filepath.Join(t.TempDir(), "accounts.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.List())

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, s.Save(newAccount("uuid-1", "Steve", tok)))
	require.NoError(t, s.Save(newAccount("uuid-2", "Alex", nil)))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Len(t, reopened.List(), 2)

	steve, err := reopened.Get("uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "Steve", steve.DisplayName)
	require.NotNil(t, steve.Token)
	assert.Equal(t, "access", steve.Token.AccessToken)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "access", "tokens must stay out of the account file")
}

func TestStoreRemove(t *testing.T) {
	gokeyring.MockInit()
	s, err := Open(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)

	require.NoError(t, s.Save(newAccount("uuid-1", "Steve", &oauth2.Token{AccessToken: "a"})))
	require.NoError(t, s.Remove("uuid-1"))

	_, err = s.Get("uuid-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Remove("uuid-1"), ErrNotFound)
}

func TestOpenDiscardsTamperedFile(t *testing.T) {
	gokeyring.MockInit()
	path := filepath.Join(t.TempDir(), "accounts.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(newAccount("uuid-1", "Steve", nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := bytes.Replace(data, []byte("Steve"), []byte("Herob"), 1)
	require.NoError(t, os.WriteFile(path, tampered, 0o600))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.List())
}

func TestUserType(t *testing.T) {
	msa := newAccount("u", "Steve", &oauth2.Token{AccessToken: "tok"}).User()
	assert.Equal(t, User{Name: "Steve", UUID: "u", AccessToken: "tok", UserType: "msa"}, msa)

	legacy := (&Account{UUID: "u", DisplayName: "Steve", Type: TypeMojang}).User()
	assert.Equal(t, "mojang", legacy.UserType)
	assert.Empty(t, legacy.AccessToken)
}

func TestLaunchUserRefreshesExpiredToken(t *testing.T) {
	gokeyring.MockInit()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"refresh-2","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "accounts.json")
	s, err := Open(path)
	require.NoError(t, err)

	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, s.Save(newAccount("uuid-1", "Steve", expired)))

	cfg := config.OAuthConfig{ClientID: "launcher", TokenURL: srv.URL}
	u, err := s.LaunchUser(context.Background(), cfg, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", u.AccessToken)

	reopened, err := Open(path)
	require.NoError(t, err)
	stored, err := reopened.Get("uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", stored.Token.RefreshToken)
}

func TestLaunchUserWithoutRefreshConfig(t *testing.T) {
	gokeyring.MockInit()
	s, err := Open(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(newAccount("uuid-1", "Steve", &oauth2.Token{AccessToken: "kept", RefreshToken: "r"})))

	u, err := s.LaunchUser(context.Background(), config.OAuthConfig{}, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "kept", u.AccessToken)

	_, err = s.LaunchUser(context.Background(), config.OAuthConfig{}, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchTokenSourceNotifiesOnChange(t *testing.T) {
	var seen []*oauth2.Token
	first := &oauth2.Token{AccessToken: "a"}
	w := &watchTokenSource{
		src:      oauth2.StaticTokenSource(first),
		prev:     first,
		observer: func(tok *oauth2.Token) { seen = append(seen, tok) },
	}

	_, err := w.Token()
	require.NoError(t, err)
	assert.Empty(t, seen)

	w.src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "b"})
	_, err = w.Token()
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "b", seen[0].AccessToken)
}
