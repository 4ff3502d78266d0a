// Package secrets encrypts API tokens before they are written into the
// portfolio snapshot, so a leaked database file does not leak credentials.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrDecryptFailed is returned when a stored token cannot be verified with
// the configured key.
var ErrDecryptFailed = errors.New("failed to decrypt token")

// GenerateKey returns a new base64-encoded fernet key. Used when no key is
// configured; tokens encrypted with a generated key do not survive restarts.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate fernet key: %w", err)
	}
	return key.Encode(), nil
}

// Vault wraps a fernet key for token encryption at rest.
type Vault struct {
	key *fernet.Key
}

// NewVault creates a Vault from a base64-encoded fernet key.
func NewVault(encodedKey string) (*Vault, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Vault{key: key}, nil
}

// Encrypt returns the fernet token for a plaintext secret.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plaintext), v.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return string(tok), nil
}

// Decrypt verifies and decrypts a stored fernet token. Tokens do not expire;
// rotation happens by re-saving settings with a new key.
func (v *Vault) Decrypt(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{v.key})
	if msg == nil {
		return "", ErrDecryptFailed
	}
	return string(msg), nil
}
