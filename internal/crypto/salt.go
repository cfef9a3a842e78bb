// Package crypto implements the client-side encryption pipeline: a
// persisted per-device salt, PBKDF2 key derivation from the live OAuth
// token, and AES-GCM payload encryption.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"spendtrack/internal/common"
)

const saltBytes = 16

// DeviceSalt loads the per-device salt from path, generating and
// persisting a fresh one on first use. The salt is stored hex-encoded,
// is not per-user or per-token, and lives for the installation.
func DeviceSalt(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err == nil {
		salt := string(data)
		if _, decodeErr := hex.DecodeString(salt); decodeErr != nil || len(salt) != saltBytes*2 {
			return "", fmt.Errorf("%w: corrupted device salt at %s", common.ErrCryptoUnavailable, path)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read device salt: %w", err)
	}

	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCryptoUnavailable, err)
	}
	salt := hex.EncodeToString(raw)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create salt directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(salt), 0600); err != nil {
		return "", fmt.Errorf("failed to persist device salt: %w", err)
	}

	return salt, nil
}
