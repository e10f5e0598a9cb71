package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	NonceSize = 12 // Nonce size for both supported ciphers
	TagSize   = 16 // Authentication tag size
)

// Cipher names as they appear in persisted envelopes.
const (
	AESGCM   = "aes-256-gcm"
	ChaCha20 = "chacha20-poly1305"
)

var (
	ErrMalformedInput    = errors.New("malformed ciphertext input")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrUnsupportedCipher = errors.New("unsupported cipher")
)

// SupportedCipher reports whether name is a cipher Seal and Open understand.
func SupportedCipher(name string) bool {
	return name == AESGCM || name == ChaCha20
}

func newAEAD(alg string, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrMalformedInput, len(key), KeySize)
	}

	switch alg {
	case AESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return gcm, nil
	case ChaCha20:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create ChaCha20-Poly1305: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCipher, alg)
	}
}

// Seal encrypts and authenticates plaintext. The result is
// len(plaintext)+TagSize bytes long. A (key, nonce) pair must never be reused.
func Seal(alg string, key, nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrMalformedInput, len(nonce), NonceSize)
	}
	aead, err := newAEAD(alg, key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open verifies and decrypts ciphertext produced by Seal.
func Open(alg string, key, nonce, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", ErrMalformedInput)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrMalformedInput, len(nonce), NonceSize)
	}
	aead, err := newAEAD(alg, key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
