// Package keyring stores launcher secrets in the operating system keyring.
package keyring

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// service is the keyring service name all launcher secrets are stored under.
const service = "lofty-launcher"

// keySize is the length in bytes of keys generated by GetOrGenKey.
const keySize = 32

// ErrNotFound is returned when no secret exists for a key.
var ErrNotFound = errors.New("secret not found in keyring")

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	secret, err := keyring.Get(service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading %s from keyring: %w", name, err)
	}
	return secret, nil
}

// Set stores secret under name, replacing any previous value.
func Set(name, secret string) error {
	if err := keyring.Set(service, name, secret); err != nil {
		return fmt.Errorf("error writing %s to keyring: %w", name, err)
	}
	return nil
}

// Delete removes the secret stored under name. Deleting a missing secret is
// not an error.
func Delete(name string) error {
	err := keyring.Delete(service, name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("error deleting %s from keyring: %w", name, err)
	}
	return nil
}

// GetJSON decodes the JSON secret stored under name into v.
func GetJSON(name string, v any) error {
	secret, err := Get(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(secret), v); err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	return nil
}

// SetJSON stores v as a JSON secret under name.
func SetJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", name, err)
	}
	return Set(name, string(data))
}

// GetOrGenKey returns the random key stored under name, generating and
// storing a new one on first use.
func GetOrGenKey(name string) ([]byte, error) {
	secret, err := Get(name)
	if err == nil {
		key, decErr := base64.StdEncoding.DecodeString(secret)
		if decErr == nil && len(key) == keySize {
			return key, nil
		}
		slog.Warn("discarding malformed key from keyring", "name", name)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("error generating key: %w", err)
	}
	if err := Set(name, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, err
	}

	slog.Debug("generated new keyring key", "name", name)
	return key, nil
}
