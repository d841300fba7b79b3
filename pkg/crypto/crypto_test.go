package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaoloBaltazar/trackflow-server/pkg/crypto"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := crypto.Encrypt("482913", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "482913", encrypted)

	decrypted, err := crypto.Decrypt(encrypted, "secret")
	require.NoError(t, err)
	assert.Equal(t, "482913", decrypted)
}

func TestDecryptWithWrongKey(t *testing.T) {
	encrypted, err := crypto.Encrypt("482913", "secret")
	require.NoError(t, err)

	decrypted, err := crypto.Decrypt(encrypted, "another-key")
	require.NoError(t, err)
	assert.NotEqual(t, "482913", decrypted)
}

func TestDecryptShortCiphertext(t *testing.T) {
	_, err := crypto.Decrypt("dG9vc2hvcnQ=", "secret")
	assert.Error(t, err)
}

func TestFixEncryptionKey(t *testing.T) {
	assert.Len(t, crypto.FixEncryptionKey("short"), 32)
	assert.Len(t, crypto.FixEncryptionKey(""), 32)

	long := "0123456789012345678901234567890123456789"
	assert.Len(t, crypto.FixEncryptionKey(long), 32)
	assert.Equal(t, long[:32], crypto.FixEncryptionKey(long))
}
