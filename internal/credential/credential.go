// Package credential issues and verifies password check records.
//
// The verification hash is SHA-256 over a purpose label and a key derived
// with the record's own salt, so it never equals a document encryption key.
package credential

import (
	"crypto/sha256"
	"fmt"

	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/envelope"
)

const purpose = "monorga/credential/v1"

// Issuer creates credential records with fixed KDF parameters.
type Issuer struct {
	Params crypto.Params
}

// NewIssuer creates an issuer after validating the parameters
func NewIssuer(params crypto.Params) (*Issuer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Issuer{Params: params}, nil
}

// Issue derives a fresh record for password.
func (i *Issuer) Issue(password []byte) (*envelope.Credential, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential salt: %w", err)
	}

	hash, err := verificationHash(password, salt, i.Params)
	if err != nil {
		return nil, err
	}

	return &envelope.Credential{
		Version: envelope.Version,
		KDF:     i.Params,
		Salt:    salt,
		Hash:    hash,
	}, nil
}

// Verify recomputes the hash with the record's salt and params.
// A wrong password yields false with a nil error.
func Verify(password []byte, record *envelope.Credential) (bool, error) {
	if err := record.Validate(); err != nil {
		return false, err
	}
	hash, err := verificationHash(password, record.Salt, record.KDF)
	if err != nil {
		return false, err
	}
	return crypto.ConstantTimeCompare(hash, record.Hash), nil
}

func verificationHash(password, salt []byte, params crypto.Params) ([]byte, error) {
	key, err := crypto.Derive(password, salt, params)
	if err != nil {
		return nil, fmt.Errorf("failed to derive credential key: %w", err)
	}
	defer crypto.ClearBytes(key)

	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write(key)
	return h.Sum(nil), nil
}
