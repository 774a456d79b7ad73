// Package slotcrypt seals slot values with AES-256-GCM before they reach a
// storage backend.
package slotcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// Sealer encrypts and decrypts slot values. A Sealer with a nil key refuses
// every operation with driven.ErrEncryptionKeyNotSet.
type Sealer struct {
	aead cipher.AEAD
}

// New creates a Sealer for a 32-byte key. A nil key yields a disabled Sealer.
func New(key []byte) (*Sealer, error) {
	if key == nil {
		return &Sealer{}, nil
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("slot key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &Sealer{aead: gcm}, nil
}

// Enabled reports whether the Sealer holds a key.
func (s *Sealer) Enabled() bool {
	return s != nil && s.aead != nil
}

// Seal encrypts plaintext and returns a base64-encoded string containing the
// nonce (12 bytes) prepended to the ciphertext.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() {
		return "", driven.ErrEncryptionKeyNotSet
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(encoded string) (string, error) {
	if !s.Enabled() {
		return "", driven.ErrEncryptionKeyNotSet
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

// ParseKey decodes a hex-encoded 32-byte key. An empty string returns nil, nil.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode slot key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("slot key must be %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// RandomKey returns a fresh random key. Slots sealed with it become unreadable
// once the process exits.
func RandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate slot key: %w", err)
	}
	return key, nil
}
