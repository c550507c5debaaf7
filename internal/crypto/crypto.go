// Package crypto encrypts SMTP passwords at rest with AES-256-CTR.
//
// CTR carries no authentication tag; the mode is kept for compatibility
// with credentials already stored in this form. Tampering is detected no
// earlier than the next SMTP login attempt.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const ivLength = 16 // AES block size

// Encrypted is the at-rest form of a secret: a random per-call IV and the
// ciphertext, both hex-encoded.
type Encrypted struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
}

// Cipher performs symmetric encryption with a fixed 32-byte key.
type Cipher struct {
	key []byte
}

// New creates a Cipher. The key must be exactly 32 bytes.
func New(key string) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key: must be 32 characters, got %d", len(key))
	}
	return &Cipher{key: []byte(key)}, nil
}

// Encrypt encrypts plaintext with a fresh random IV. Two calls on the
// same input produce different ciphertexts.
func (c *Cipher) Encrypt(plaintext string) (Encrypted, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return Encrypted{}, fmt.Errorf("failed to generate IV: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return Encrypted{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))

	return Encrypted{
		IV:      hex.EncodeToString(iv),
		Content: hex.EncodeToString(ciphertext),
	}, nil
}

// Decrypt reverses Encrypt given the same key and both hex fields.
func (c *Cipher) Decrypt(enc Encrypted) (string, error) {
	iv, err := hex.DecodeString(enc.IV)
	if err != nil {
		return "", fmt.Errorf("invalid IV encoding: %w", err)
	}
	if len(iv) != ivLength {
		return "", fmt.Errorf("invalid IV length: expected %d bytes, got %d", ivLength, len(iv))
	}

	ciphertext, err := hex.DecodeString(enc.Content)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	return string(plaintext), nil
}
