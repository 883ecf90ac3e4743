// internal/common/secrets/secrets.go
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Codec decrypts stored provider credentials. Plaintext is only held in
// memory immediately before use and never persisted.
type Codec struct {
	key [32]byte
}

// NewCodec builds a Codec from a base64-encoded 32-byte key.
func NewCodec(base64Key string) (*Codec, error) {
	raw, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(raw))
	}

	c := &Codec{}
	copy(c.key[:], raw)
	return c, nil
}

// Decrypt opens a base64(nonce || box) envelope.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", fmt.Errorf("ciphertext authentication failed")
	}

	return string(plaintext), nil
}

// Encrypt seals plaintext into a base64(nonce || box) envelope. Used by
// provisioning tooling and tests; the workflow engine itself only
// decrypts.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}
