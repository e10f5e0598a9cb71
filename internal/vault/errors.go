package vault

import (
	"errors"
	"fmt"

	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/envelope"
)

var (
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not meet the minimum length")
	ErrDataCorruption     = errors.New("vault data is corrupted")
	ErrLocked             = errors.New("vault is locked")
	ErrAlreadyInitialized = errors.New("vault already initialized")
	ErrNoEnvelope         = errors.New("no document has been saved")
	ErrInvalidOption      = errors.New("invalid vault option")

	// Structural errors from the codec and cipher layers, re-exported for callers.
	ErrMalformedEnvelope = envelope.ErrMalformedEnvelope
	ErrMalformedInput    = crypto.ErrMalformedInput
)

// corruption marks err as ErrDataCorruption while keeping its own chain.
func corruption(err error) error {
	return fmt.Errorf("%w: %w", ErrDataCorruption, err)
}
