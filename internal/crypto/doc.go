// Package crypto provides the cryptographic primitives of the monorga vault.
//
// Key derivation:
//   - PBKDF2-HMAC-SHA256, 210,000 iterations by default (never below 100,000)
//   - Argon2id as an alternative with OWASP minimum memory cost
//   - 16-byte random salt, stored unencrypted next to the ciphertext
//
// Encryption uses AES-256-GCM or ChaCha20-Poly1305 with:
//   - 32-byte key derived from the password
//   - 12-byte random nonce per encryption operation
//   - 16-byte authentication tag appended to the ciphertext
//
// Memory safety:
//   - Use ClearBytes() to zero keys and passwords after use
package crypto
