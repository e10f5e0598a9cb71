package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize      = 16     // Salt size in bytes
	KeySize       = 32     // 256-bit key size
	DefaultIters  = 210000 // Default PBKDF2 iterations (OWASP recommendation)
	MinIterations = 100000 // PBKDF2 floor, configurable upward only
	MaxIterations = 10000000

	MinArgonMemory  = 19 * 1024   // KiB
	DefaultMemory   = 64 * 1024   // KiB
	MaxArgonMemory  = 1024 * 1024 // KiB
	MaxArgonTime    = 64
	DefaultThreads  = 4
	MaxArgonThreads = 64
)

// KDF algorithm names as they appear in persisted records.
const (
	PBKDF2SHA256 = "pbkdf2-sha256"
	Argon2id     = "argon2id"
)

var ErrInvalidParams = errors.New("invalid key derivation parameters")

// Params describes how a key is derived from a password.
// Iterations is the PBKDF2 round count, or the Argon2id time cost.
type Params struct {
	Algorithm  string `json:"algorithm"`
	Iterations uint32 `json:"iterations"`
	Memory     uint32 `json:"memory,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
}

// DefaultParams returns PBKDF2-HMAC-SHA256 with the default iteration count.
func DefaultParams() Params {
	return Params{
		Algorithm:  PBKDF2SHA256,
		Iterations: DefaultIters,
	}
}

// DefaultArgon2Params returns Argon2id with 64 MiB of memory.
func DefaultArgon2Params() Params {
	return Params{
		Algorithm:  Argon2id,
		Iterations: 1,
		Memory:     DefaultMemory,
		Threads:    DefaultThreads,
	}
}

// Validate checks the parameters against the cost range of their algorithm.
// Params read from a file are untrusted, so the ceilings bound how much
// memory and CPU a single derivation may take.
func (p Params) Validate() error {
	switch p.Algorithm {
	case PBKDF2SHA256:
		if p.Iterations < MinIterations {
			return fmt.Errorf("%w: %d iterations, minimum is %d", ErrInvalidParams, p.Iterations, MinIterations)
		}
		if p.Iterations > MaxIterations {
			return fmt.Errorf("%w: %d iterations, maximum is %d", ErrInvalidParams, p.Iterations, MaxIterations)
		}
	case Argon2id:
		if p.Iterations < 1 || p.Iterations > MaxArgonTime {
			return fmt.Errorf("%w: argon2id time cost %d, allowed range is 1-%d", ErrInvalidParams, p.Iterations, MaxArgonTime)
		}
		if p.Memory < MinArgonMemory {
			return fmt.Errorf("%w: argon2id memory %d KiB, minimum is %d", ErrInvalidParams, p.Memory, MinArgonMemory)
		}
		if p.Memory > MaxArgonMemory {
			return fmt.Errorf("%w: argon2id memory %d KiB, maximum is %d", ErrInvalidParams, p.Memory, MaxArgonMemory)
		}
		if p.Threads < 1 || p.Threads > MaxArgonThreads {
			return fmt.Errorf("%w: argon2id threads %d, allowed range is 1-%d", ErrInvalidParams, p.Threads, MaxArgonThreads)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParams, p.Algorithm)
	}
	return nil
}

// Derive derives a KeySize key from a password and salt.
// The same inputs always yield the same key.
func Derive(password, salt []byte, p Params) ([]byte, error) {
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, minimum is %d", ErrInvalidParams, len(salt), SaltSize)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.Algorithm == Argon2id {
		return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Threads, KeySize), nil
	}
	return pbkdf2.Key(password, salt, int(p.Iterations), KeySize, sha256.New), nil
}
