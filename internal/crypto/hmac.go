// Package crypto signs launcher files with keys kept in the OS keyring.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lofty-launcher/internal/keyring"
)

// HMAC computes an HMAC-SHA256 of the data using the provided key,
// and returns the result as a hexadecimal string.
func HMAC(data, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Signer signs data with a generated keyring key.
type Signer struct {
	// KeyID names the key in the keyring.
	KeyID string
}

// Sign returns the hex HMAC of data, generating the key on first use.
func (s Signer) Sign(data []byte) (string, error) {
	key, err := keyring.GetOrGenKey(s.KeyID)
	if err != nil {
		return "", fmt.Errorf("unable to load signing key %s: %w", s.KeyID, err)
	}
	return HMAC(data, key), nil
}

// Verify reports whether sig is the signature of data.
func (s Signer) Verify(data []byte, sig string) (bool, error) {
	want, err := s.Sign(data)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(want), []byte(sig)), nil
}
