// Package envelope encodes the persisted artifacts of a vault.
//
// Two records are defined, both versioned JSON with base64 byte fields:
//   - Envelope: KDF params, cipher, salt, nonce and ciphertext+tag of one
//     encrypted snapshot of the document
//   - Credential: KDF params, salt and verification hash used to test a
//     password before any decryption is attempted
//
// Each record carries its own KDF params so the defaults can be raised
// without orphaning data written under older settings.
package envelope
