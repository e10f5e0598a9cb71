package vault

import (
	"encoding/json"
	"fmt"

	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/logger"
)

// MinPasswordLength is the shortest password a Store accepts for new records.
const MinPasswordLength = 8

// DocumentCodec turns a document into bytes and back.
type DocumentCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default DocumentCodec.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type options struct {
	params         crypto.Params
	cipher         string
	minPasswordLen int
	codec          DocumentCodec
	log            *logger.Logger
}

func defaultOptions() options {
	return options{
		params:         crypto.DefaultParams(),
		cipher:         crypto.AESGCM,
		minPasswordLen: MinPasswordLength,
		codec:          JSONCodec{},
		log:            logger.Nop(),
	}
}

func (o options) validate() error {
	if err := o.params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	if !crypto.SupportedCipher(o.cipher) {
		return fmt.Errorf("%w: unsupported cipher %q", ErrInvalidOption, o.cipher)
	}
	if o.minPasswordLen < MinPasswordLength {
		return fmt.Errorf("%w: minimum password length %d is below %d", ErrInvalidOption, o.minPasswordLen, MinPasswordLength)
	}
	if o.codec == nil {
		return fmt.Errorf("%w: nil codec", ErrInvalidOption)
	}
	return nil
}

// Option configures a Store.
type Option func(*options)

// WithParams sets the KDF parameters used for new records.
// Existing records keep the parameters they were written with.
func WithParams(p crypto.Params) Option {
	return func(o *options) { o.params = p }
}

// WithCipher selects the AEAD for new envelopes.
func WithCipher(name string) Option {
	return func(o *options) { o.cipher = name }
}

// WithMinPasswordLength raises the password policy.
func WithMinPasswordLength(n int) Option {
	return func(o *options) { o.minPasswordLen = n }
}

// WithCodec replaces the JSON document codec.
func WithCodec(c DocumentCodec) Option {
	return func(o *options) { o.codec = c }
}

// WithLogger sets the logger. Nothing secret is ever logged.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
