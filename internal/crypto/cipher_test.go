package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/common"
)

func createTestCipher(t *testing.T) *PayloadCipher {
	t.Helper()
	c, err := NewPayloadCipher(filepath.Join(t.TempDir(), "device-salt"))
	require.NoError(t, err)
	return c
}

type fixture struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := createTestCipher(t)

	in := fixture{Name: "groceries", Total: 1249.75}
	ciphertext, iv, err := c.Encrypt(in, "token-abc")
	require.NoError(t, err)
	assert.NotEmpty(t, ciphertext)
	assert.NotEmpty(t, iv)

	var out fixture
	require.NoError(t, c.Decrypt(ciphertext, iv, "token-abc", &out))
	assert.Equal(t, in, out)
}

func TestEncryptUsesFreshIV(t *testing.T) {
	c := createTestCipher(t)

	in := fixture{Name: "same payload"}
	ct1, iv1, err := c.Encrypt(in, "token-abc")
	require.NoError(t, err)
	ct2, iv2, err := c.Encrypt(in, "token-abc")
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
	assert.NotEqual(t, ct1, ct2)
}

func TestDecryptFailures(t *testing.T) {
	c := createTestCipher(t)

	ciphertext, iv, err := c.Encrypt(fixture{Name: "secret"}, "token-abc")
	require.NoError(t, err)

	var out fixture

	t.Run("wrong token", func(t *testing.T) {
		err := c.Decrypt(ciphertext, iv, "token-xyz", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})

	t.Run("corrupted ciphertext", func(t *testing.T) {
		corrupt := "B" + ciphertext[1:]
		if ciphertext[0] == 'B' {
			corrupt = "C" + ciphertext[1:]
		}
		err := c.Decrypt(corrupt, iv, "token-abc", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})

	t.Run("mismatched IV", func(t *testing.T) {
		_, otherIV, err := c.Encrypt(fixture{Name: "other"}, "token-abc")
		require.NoError(t, err)

		err = c.Decrypt(ciphertext, otherIV, "token-abc", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})

	t.Run("not base64", func(t *testing.T) {
		err := c.Decrypt("%%%not-base64%%%", iv, "token-abc", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)

		err = c.Decrypt(ciphertext, "%%%not-base64%%%", "token-abc", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})

	t.Run("bad IV length", func(t *testing.T) {
		err := c.Decrypt(ciphertext, "c2hvcnQ=", "token-abc", &out) // "short"
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})

	t.Run("different device salt", func(t *testing.T) {
		other := createTestCipher(t)
		err := other.Decrypt(ciphertext, iv, "token-abc", &out)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	})
}

func TestDeviceSalt(t *testing.T) {
	t.Run("generates and persists on first use", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device-salt")

		salt, err := DeviceSalt(path)
		require.NoError(t, err)
		assert.Len(t, salt, 32) // 16 bytes hex encoded

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, salt, string(data))
	})

	t.Run("stable across loads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device-salt")

		first, err := DeviceSalt(path)
		require.NoError(t, err)
		second, err := DeviceSalt(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rejects corrupted salt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device-salt")
		require.NoError(t, os.WriteFile(path, []byte("not hex at all"), 0600))

		_, err := DeviceSalt(path)
		assert.ErrorIs(t, err, common.ErrCryptoUnavailable)
	})
}

func TestCipherStableAcrossInstances(t *testing.T) {
	// Two ciphers over the same salt file must derive the same key.
	dir := t.TempDir()
	path := filepath.Join(dir, "device-salt")

	c1, err := NewPayloadCipher(path)
	require.NoError(t, err)
	c2, err := NewPayloadCipher(path)
	require.NoError(t, err)

	ciphertext, iv, err := c1.Encrypt(fixture{Name: "persisted"}, "token-abc")
	require.NoError(t, err)

	var out fixture
	require.NoError(t, c2.Decrypt(ciphertext, iv, "token-abc", &out))
	assert.Equal(t, "persisted", out.Name)
}

func TestSelfTest(t *testing.T) {
	c := createTestCipher(t)
	assert.NoError(t, c.SelfTest("token-abc"))
}
