package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"spendtrack/internal/common"
)

const (
	kdfIterations = 100_000
	keyBytes      = 32 // AES-256
	ivBytes       = 12 // 96-bit GCM nonce
)

// PayloadCipher encrypts JSON-serializable payloads with a key derived
// from the caller's OAuth token and the persisted device salt. The
// derived key is never stored; it is recomputed per operation.
type PayloadCipher struct {
	salt string
}

// NewPayloadCipher loads (or creates) the device salt at saltPath and
// returns a cipher bound to it.
func NewPayloadCipher(saltPath string) (*PayloadCipher, error) {
	salt, err := DeviceSalt(saltPath)
	if err != nil {
		return nil, err
	}
	return &PayloadCipher{salt: salt}, nil
}

// deriveKey stretches token and device salt into a 256-bit key. The key
// material is "token:salt" and the KDF salt parameter is the hex salt
// string's bytes, so a given token+salt pair always derives the same key.
func (c *PayloadCipher) deriveKey(token string) []byte {
	material := []byte(token + ":" + c.salt)
	return pbkdf2.Key(material, []byte(c.salt), kdfIterations, keyBytes, sha256.New)
}

// Encrypt serializes payload to JSON and seals it with AES-GCM under the
// token-derived key. A fresh random 96-bit IV is drawn per call; both
// ciphertext and IV come back base64 encoded.
func (c *PayloadCipher) Encrypt(payload any, token string) (string, string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize payload: %w", err)
	}

	iv := make([]byte, ivBytes)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrCryptoUnavailable, err)
	}

	aead, err := c.newAEAD(token)
	if err != nil {
		return "", "", err
	}

	ciphertext := aead.Seal(nil, iv, plaintext, nil)

	return base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(iv),
		nil
}

// Decrypt reverses Encrypt into v. Authentication failure (wrong key,
// corrupted ciphertext, mismatched IV) and malformed decrypted JSON both
// surface as common.ErrDecryptionFailed.
func (c *PayloadCipher) Decrypt(ciphertext, iv, token string, v any) error {
	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return fmt.Errorf("%w: invalid ciphertext encoding", common.ErrDecryptionFailed)
	}
	rawIV, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return fmt.Errorf("%w: invalid IV encoding", common.ErrDecryptionFailed)
	}

	aead, err := c.newAEAD(token)
	if err != nil {
		return err
	}
	if len(rawIV) != aead.NonceSize() {
		return fmt.Errorf("%w: bad IV length %d", common.ErrDecryptionFailed, len(rawIV))
	}

	plaintext, err := aead.Open(nil, rawIV, rawCiphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: decrypted payload is not valid JSON: %v", common.ErrDecryptionFailed, err)
	}
	return nil
}

func (c *PayloadCipher) newAEAD(token string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.deriveKey(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCryptoUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCryptoUnavailable, err)
	}
	return aead, nil
}

// SelfTest round-trips a fixture through the full pipeline to validate
// the crypto stack independent of business data.
func (c *PayloadCipher) SelfTest(token string) error {
	fixture := map[string]string{"test": "Hello, World!"}

	ciphertext, iv, err := c.Encrypt(fixture, token)
	if err != nil {
		return fmt.Errorf("self-test encrypt: %w", err)
	}

	var decrypted map[string]string
	if err := c.Decrypt(ciphertext, iv, token, &decrypted); err != nil {
		return fmt.Errorf("self-test decrypt: %w", err)
	}

	if decrypted["test"] != fixture["test"] {
		return fmt.Errorf("%w: self-test round trip mismatch", common.ErrDecryptionFailed)
	}
	return nil
}
