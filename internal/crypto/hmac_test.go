package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestHMAC(t *testing.T) {
	// RFC 4231 test case 2.
	got := HMAC([]byte("what do ya want for nothing?"), []byte("Jefe"))
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestSignerVerify(t *testing.T) {
	gokeyring.MockInit()
	s := Signer{KeyID: "test-key"}

	sig, err := s.Sign([]byte("payload"))
	require.NoError(t, err)

	ok, err := s.Verify([]byte("payload"), sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify([]byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := s.Sign([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, sig, again)
}
