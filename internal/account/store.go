package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/getsentry/sentry-go"
	"golang.org/x/oauth2"

	"lofty-launcher/internal/crypto"
	"lofty-launcher/internal/keyring"
)

// signer signs the account file with a key kept in the keyring.
var signer = crypto.Signer{KeyID: "3CA80030-8679-41AD-9E5C-09705C233580"}

// ErrNotFound is returned when no account exists for a UUID.
var ErrNotFound = errors.New("account not found")

// file is the on-disk form of the account list.
type file struct {
	Accounts  []*Account `json:"accounts"`
	Signature string     `json:"signature"`
}

// Store persists accounts to a signed JSON file, with tokens kept in the
// OS keyring. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	accounts []*Account
}

// tokenKey returns the keyring name holding the token for an account.
func tokenKey(uuid string) string {
	return "token:" + uuid
}

// Open loads the account store at path. A missing file yields an empty store.
// A file whose signature does not match is discarded with a warning.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading account file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding account file: %w", err)
	}

	payload, err := json.Marshal(f.Accounts)
	if err != nil {
		return nil, err
	}
	ok, err := signer.Verify(payload, f.Signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("account file signature mismatch, discarding accounts", "path", path)
		return s, nil
	}

	for _, a := range f.Accounts {
		var tok oauth2.Token
		switch err := keyring.GetJSON(tokenKey(a.UUID), &tok); {
		case err == nil:
			a.Token = &tok
		case errors.Is(err, keyring.ErrNotFound):
			slog.Warn("no token stored for account", "uuid", a.UUID)
		default:
			sentry.CaptureException(err)
			slog.Error("unable to load account token", "uuid", a.UUID, "error", err)
		}
	}

	s.accounts = f.Accounts
	return s, nil
}

// List returns every stored account in insertion order.
func (s *Store) List() []*Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Get returns the account with the given UUID.
func (s *Store) Get(uuid string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(uuid); i >= 0 {
		return s.accounts[i], nil
	}
	return nil, ErrNotFound
}

// Save adds or replaces an account and persists the store.
func (s *Store) Save(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("saving account", "uuid", a.UUID, "type", a.Type)

	if a.Token != nil {
		if err := keyring.SetJSON(tokenKey(a.UUID), a.Token); err != nil {
			return err
		}
	}

	if i := s.index(a.UUID); i >= 0 {
		s.accounts[i] = a
	} else {
		s.accounts = append(s.accounts, a)
	}
	return s.writeLocked()
}

// Remove deletes an account and its token.
func (s *Store) Remove(uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(uuid)
	if i < 0 {
		return ErrNotFound
	}

	slog.Debug("removing account", "uuid", uuid)

	if err := keyring.Delete(tokenKey(uuid)); err != nil {
		return err
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
	return s.writeLocked()
}

func (s *Store) index(uuid string) int {
	for i, a := range s.accounts {
		if a.UUID == uuid {
			return i
		}
	}
	return -1
}

func (s *Store) writeLocked() error {
	accounts := s.accounts
	if accounts == nil {
		accounts = []*Account{}
	}

	payload, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("error encoding accounts: %w", err)
	}
	sig, err := signer.Sign(payload)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(file{Accounts: accounts, Signature: sig}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding account file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("unable to create account directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing account file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing account file: %w", err)
	}
	return nil
}
