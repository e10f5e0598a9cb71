package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
)

// NewSalt generates a fresh random salt
func NewSalt() ([]byte, error) {
	return Random(SaltSize)
}

// NewNonce generates a fresh random nonce
func NewNonce() ([]byte, error) {
	return Random(NonceSize)
}

// Random generates n random bytes
func Random(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
