// Package config loads monorga settings from MONORGA_* environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/ambrosios/monorga/internal/crypto"
)

// MinPasswordLength is the policy floor for new passwords.
const MinPasswordLength = 8

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the runtime settings of the CLI and vault.
type Config struct {
	// VaultPath is the vault database file.
	VaultPath string `env:"MONORGA_VAULT" envDefault:".monorga"`
	// Password allows non-interactive use. Read once, never logged.
	Password string `env:"MONORGA_PASSWORD"`

	// KDF is the key derivation algorithm for new records.
	KDF string `env:"MONORGA_KDF" envDefault:"pbkdf2-sha256"`
	// Iterations is the PBKDF2 round count, or the Argon2id time cost.
	Iterations uint32 `env:"MONORGA_KDF_ITERATIONS"`
	// ArgonMemory is the Argon2id memory cost in KiB.
	ArgonMemory uint32 `env:"MONORGA_KDF_MEMORY" envDefault:"65536"`
	// ArgonThreads is the Argon2id parallelism.
	ArgonThreads uint8 `env:"MONORGA_KDF_THREADS" envDefault:"4"`
	// Cipher is the AEAD used for new envelopes.
	Cipher string `env:"MONORGA_CIPHER" envDefault:"aes-256-gcm"`

	// MinPasswordLength may be raised above the policy floor, never lowered.
	MinPasswordLength int `env:"MONORGA_MIN_PASSWORD_LENGTH" envDefault:"8"`

	// LogLevel is the zerolog level (debug, info, warn, error).
	LogLevel string `env:"MONORGA_LOG_LEVEL" envDefault:"warn"`
	// Keyring enables caching the password in the OS keyring.
	Keyring bool `env:"MONORGA_KEYRING" envDefault:"true"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KDFParams builds derivation parameters for new records.
func (c *Config) KDFParams() crypto.Params {
	switch c.KDF {
	case crypto.Argon2id:
		p := crypto.DefaultArgon2Params()
		if c.Iterations > 0 {
			p.Iterations = c.Iterations
		}
		p.Memory = c.ArgonMemory
		p.Threads = c.ArgonThreads
		return p
	default:
		p := crypto.DefaultParams()
		p.Algorithm = c.KDF
		if c.Iterations > 0 {
			p.Iterations = c.Iterations
		}
		return p
	}
}

// Validate refuses settings that weaken the vault below its floors.
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("%w: vault path is empty", ErrInvalidConfig)
	}
	if err := c.KDFParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !crypto.SupportedCipher(c.Cipher) {
		return fmt.Errorf("%w: unsupported cipher %q", ErrInvalidConfig, c.Cipher)
	}
	if c.MinPasswordLength < MinPasswordLength {
		return fmt.Errorf("%w: minimum password length %d is below %d", ErrInvalidConfig, c.MinPasswordLength, MinPasswordLength)
	}
	return nil
}
