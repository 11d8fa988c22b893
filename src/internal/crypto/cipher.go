package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Field values are stored as "<hex nonce>:<hex tag>:<hex ciphertext>",
// AES-256-GCM with a fresh random nonce per call.
const (
	nonceLength = 12
	tagLength   = 16
	keyLength   = 32

	partSeparator = ":"
)

var ErrMalformedCiphertext = errors.New("malformed ciphertext payload")
var ErrAuthenticationFailed = errors.New("ciphertext authentication failed")

// FieldCipher encrypts and decrypts individual string fields. The key is
// fixed at construction and the cipher is safe for concurrent use.
type FieldCipher struct {
	aead cipher.AEAD
}

func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("field cipher key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init field cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithTagSize(block, tagLength)
	if err != nil {
		return nil, fmt.Errorf("init field cipher: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals a UTF-8 string. An empty input maps to the empty sentinel
// rather than an error so optional fields round-trip cleanly.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	// Seal appends the tag to the ciphertext; the stored format keeps
	// them as separate hex parts.
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	return hex.EncodeToString(nonce) + partSeparator +
		hex.EncodeToString(tag) + partSeparator +
		hex.EncodeToString(ciphertext), nil
}

// Decrypt opens a stored field value. A tag mismatch fails closed with
// ErrAuthenticationFailed and never returns partial plaintext.
func (c *FieldCipher) Decrypt(payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	parts := strings.Split(payload, partSeparator)
	if len(parts) != 3 {
		return "", ErrMalformedCiphertext
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceLength {
		return "", ErrMalformedCiphertext
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagLength {
		return "", ErrMalformedCiphertext
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	return string(plaintext), nil
}
