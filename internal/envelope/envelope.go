package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ambrosios/monorga/internal/crypto"
)

// Version is the current format version of envelopes and credentials.
const Version = 1

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Envelope is one encrypted snapshot of a document.
// Ciphertext includes the authentication tag.
type Envelope struct {
	Version    int           `json:"version"`
	KDF        crypto.Params `json:"kdf"`
	Cipher     string        `json:"cipher"`
	Salt       []byte        `json:"salt"`
	Nonce      []byte        `json:"nonce"`
	Ciphertext []byte        `json:"ciphertext"`
}

// Validate checks field presence and lengths.
func (e *Envelope) Validate() error {
	if e.Version != Version {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrMalformedEnvelope, e.Version, Version)
	}
	if err := e.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if e.Cipher == "" {
		return fmt.Errorf("%w: cipher is required", ErrMalformedEnvelope)
	}
	if !crypto.SupportedCipher(e.Cipher) {
		return fmt.Errorf("%w: unsupported cipher %q", ErrMalformedEnvelope, e.Cipher)
	}
	if len(e.Salt) != crypto.SaltSize {
		return fmt.Errorf("%w: salt is %d bytes, expected %d", ErrMalformedEnvelope, len(e.Salt), crypto.SaltSize)
	}
	if len(e.Nonce) != crypto.NonceSize {
		return fmt.Errorf("%w: nonce is %d bytes, expected %d", ErrMalformedEnvelope, len(e.Nonce), crypto.NonceSize)
	}
	if len(e.Ciphertext) < crypto.TagSize {
		return fmt.Errorf("%w: ciphertext is %d bytes, shorter than the tag", ErrMalformedEnvelope, len(e.Ciphertext))
	}
	return nil
}

// Encode serializes an envelope to its portable form.
func Encode(e *Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// Decode parses and validates a portable envelope. Only the exact bytes
// Encode produces are accepted, apart from surrounding whitespace.
func Decode(data []byte) (*Envelope, error) {
	var e Envelope
	if err := decodeStrict(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := checkCanonical(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// decodeStrict unmarshals a single JSON object and rejects unknown fields
// and trailing data.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after record", ErrMalformedEnvelope)
	}
	return nil
}

// checkCanonical rejects input that decodes to v but differs from its
// encoding, such as keys in another case or repeated keys.
func checkCanonical(data []byte, v any) error {
	want, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if !bytes.Equal(bytes.TrimSpace(data), want) {
		return fmt.Errorf("%w: non-canonical encoding", ErrMalformedEnvelope)
	}
	return nil
}
