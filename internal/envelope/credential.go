package envelope

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ambrosios/monorga/internal/crypto"
)

// HashSize is the length of a credential verification hash.
const HashSize = sha256.Size

// Credential is the password check record, independent of any envelope.
type Credential struct {
	Version int           `json:"version"`
	KDF     crypto.Params `json:"kdf"`
	Salt    []byte        `json:"salt"`
	Hash    []byte        `json:"hash"`
}

// Validate checks field presence and lengths.
func (c *Credential) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: unsupported credential version %d, expected %d", ErrMalformedEnvelope, c.Version, Version)
	}
	if err := c.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(c.Salt) != crypto.SaltSize {
		return fmt.Errorf("%w: credential salt is %d bytes, expected %d", ErrMalformedEnvelope, len(c.Salt), crypto.SaltSize)
	}
	if len(c.Hash) != HashSize {
		return fmt.Errorf("%w: credential hash is %d bytes, expected %d", ErrMalformedEnvelope, len(c.Hash), HashSize)
	}
	return nil
}

// EncodeCredential serializes a credential record.
func EncodeCredential(c *Credential) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}
	return data, nil
}

// DecodeCredential parses and validates a credential record with the same
// strictness as Decode.
func DecodeCredential(data []byte) (*Credential, error) {
	var c Credential
	if err := decodeStrict(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := checkCanonical(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
