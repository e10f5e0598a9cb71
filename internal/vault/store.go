package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/ambrosios/monorga/internal/credential"
	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/envelope"
	"github.com/ambrosios/monorga/internal/logger"
	"github.com/ambrosios/monorga/internal/storage"
)

// State is the session state of a Store.
type State int32

const (
	Locked State = iota
	Unlocking
	Unlocked
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Store keeps a document of type D encrypted in a Persistence.
// All operations that touch persisted state are serialized.
type Store[D any] struct {
	slots  storage.Persistence
	opts   options
	issuer *credential.Issuer
	log    *logger.Logger

	state atomic.Int32

	mu       sync.Mutex
	password []byte
	doc      D
}

// New creates a locked Store over slots.
func New[D any](slots storage.Persistence, opts ...Option) (*Store[D], error) {
	if slots == nil {
		return nil, fmt.Errorf("%w: nil persistence", ErrInvalidOption)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	issuer, err := credential.NewIssuer(o.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	return &Store[D]{
		slots:  slots,
		opts:   o,
		issuer: issuer,
		log:    o.log.Component("vault"),
	}, nil
}

// State reports the current session state.
func (s *Store[D]) State() State {
	return State(s.state.Load())
}

// IsInitialized reports whether a credential record exists.
func (s *Store[D]) IsInitialized() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := readRecords(s.slots)
	if err != nil {
		return false, err
	}
	return rec.hasCredential, nil
}

// Unlock verifies password and decrypts the stored document. Without a
// credential record it initializes the vault with an empty document instead.
func (s *Store[D]) Unlock(ctx context.Context, password []byte) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recover(); err != nil {
		return zero, err
	}

	rec, err := readRecords(s.slots)
	if err != nil {
		return zero, err
	}
	if !rec.hasCredential {
		s.log.Info().Msg("no credential record, initializing vault")
		return s.initialize(password, zero)
	}

	prev := s.State()
	s.state.Store(int32(Unlocking))
	doc, err := s.unlock(password, rec)
	if err != nil {
		s.state.Store(int32(prev))
		return zero, err
	}

	s.setSession(password, doc)
	s.log.Info().Bool("empty", !rec.hasEnvelope).Msg("vault unlocked")
	return doc, nil
}

func (s *Store[D]) unlock(password []byte, rec *records) (D, error) {
	var zero D

	cred, err := envelope.DecodeCredential(rec.credential)
	if err != nil {
		return zero, corruption(err)
	}
	ok, err := credential.Verify(password, cred)
	if err != nil {
		return zero, corruption(err)
	}
	if !ok {
		s.log.Warn().Msg("unlock rejected: wrong password")
		return zero, ErrInvalidPassword
	}

	if !rec.hasEnvelope {
		return zero, nil
	}

	env, err := envelope.Decode(rec.envelope)
	if err != nil {
		return zero, corruption(err)
	}
	doc, err := s.decrypt(env, password)
	if err != nil {
		// The password already passed an independent check.
		s.log.Error().Err(err).Msg("envelope failed to open after credential check")
		return zero, corruption(err)
	}
	return doc, nil
}

// Initialize creates the credential record and first envelope and unlocks
// the session. It fails if the vault already has a credential record.
func (s *Store[D]) Initialize(ctx context.Context, password []byte, doc D) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recover(); err != nil {
		return err
	}
	rec, err := readRecords(s.slots)
	if err != nil {
		return err
	}
	if rec.hasCredential {
		return ErrAlreadyInitialized
	}

	_, err = s.initialize(password, doc)
	return err
}

func (s *Store[D]) initialize(password []byte, doc D) (D, error) {
	var zero D
	if err := s.checkPolicy(password); err != nil {
		return zero, err
	}

	credData, envData, err := s.sealPair(password, doc)
	if err != nil {
		return zero, err
	}
	applied, err := commitPair(s.slots, credData, envData)
	if err != nil {
		return zero, err
	}
	if !applied {
		s.log.Warn().Msg("records journaled but not yet applied")
	}

	s.setSession(password, doc)
	s.log.Info().Str("kdf", s.opts.params.Algorithm).Str("cipher", s.opts.cipher).Msg("vault initialized")
	return doc, nil
}

// Document returns the in-memory document of the unlocked session.
func (s *Store[D]) Document() (D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != Unlocked {
		var zero D
		return zero, ErrLocked
	}
	return s.doc, nil
}

// Save seals doc under a fresh salt and nonce and replaces the stored
// envelope. On failure the previous envelope stays authoritative.
func (s *Store[D]) Save(ctx context.Context, doc D) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != Unlocked {
		return ErrLocked
	}
	if err := s.recover(); err != nil {
		return err
	}

	data, err := s.seal(s.password, doc)
	if err != nil {
		return err
	}
	if err := s.slots.Set(KeyEnvelope, data); err != nil {
		return fmt.Errorf("failed to store envelope: %w", err)
	}

	s.doc = doc
	s.log.Debug().Int("bytes", len(data)).Msg("envelope saved")
	return nil
}

// ChangePassword re-verifies currentPassword, then replaces the credential
// record and the envelope together under newPassword.
func (s *Store[D]) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != Unlocked {
		return ErrLocked
	}
	if err := s.recover(); err != nil {
		return err
	}

	rec, err := readRecords(s.slots)
	if err != nil {
		return err
	}
	if !rec.hasCredential {
		return corruption(errors.New("credential record missing"))
	}
	cred, err := envelope.DecodeCredential(rec.credential)
	if err != nil {
		return corruption(err)
	}
	ok, err := credential.Verify(currentPassword, cred)
	if err != nil {
		return corruption(err)
	}
	if !ok {
		s.log.Warn().Msg("password change rejected: wrong current password")
		return ErrInvalidPassword
	}
	if err := s.checkPolicy(newPassword); err != nil {
		return err
	}

	credData, envData, err := s.sealPair(newPassword, s.doc)
	if err != nil {
		return err
	}
	applied, err := commitPair(s.slots, credData, envData)
	if err != nil {
		return err
	}
	if !applied {
		s.log.Warn().Msg("password change journaled but not yet applied")
	}

	s.setSession(newPassword, s.doc)
	s.log.Info().Msg("password changed")
	return nil
}

// ExportEnvelope returns the stored envelope re-encoded, without decrypting it.
func (s *Store[D]) ExportEnvelope(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := readRecords(s.slots)
	if err != nil {
		return nil, err
	}
	if !rec.hasEnvelope {
		return nil, ErrNoEnvelope
	}

	env, err := envelope.Decode(rec.envelope)
	if err != nil {
		return nil, corruption(err)
	}
	return envelope.Encode(env)
}

// ImportEnvelope decrypts an exported envelope with password, which need
// not be the session password. Wrong password and tampered data are both
// reported as ErrInvalidPassword. The session is not modified.
func (s *Store[D]) ImportEnvelope(ctx context.Context, data, password []byte) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	env, err := envelope.Decode(data)
	if err != nil {
		return zero, err
	}

	doc, err := s.decrypt(env, password)
	switch {
	case errors.Is(err, crypto.ErrAuthFailed), errors.Is(err, crypto.ErrMalformedInput):
		s.log.Warn().Msg("import rejected")
		return zero, ErrInvalidPassword
	case err != nil:
		return zero, corruption(err)
	}

	s.log.Info().Int("bytes", len(data)).Msg("envelope imported")
	return doc, nil
}

// Lock wipes the session password and drops the document. Idempotent.
func (s *Store[D]) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	crypto.ClearBytes(s.password)
	s.password = nil
	var zero D
	s.doc = zero
	if s.State() != Locked {
		s.log.Info().Msg("vault locked")
	}
	s.state.Store(int32(Locked))
}

func (s *Store[D]) setSession(password []byte, doc D) {
	owned := append([]byte(nil), password...)
	crypto.ClearBytes(s.password)
	s.password = owned
	s.doc = doc
	s.state.Store(int32(Unlocked))
}

func (s *Store[D]) recover() error {
	recovered, err := recoverJournal(s.slots)
	if err != nil {
		return err
	}
	if recovered {
		s.log.Warn().Msg("applied pending journal from an interrupted write")
	}
	return nil
}

func (s *Store[D]) checkPolicy(password []byte) error {
	if utf8.RuneCount(password) < s.opts.minPasswordLen {
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, s.opts.minPasswordLen)
	}
	return nil
}

// sealPair issues a credential and seals doc, both under password.
func (s *Store[D]) sealPair(password []byte, doc D) ([]byte, []byte, error) {
	cred, err := s.issuer.Issue(password)
	if err != nil {
		return nil, nil, err
	}
	credData, err := envelope.EncodeCredential(cred)
	if err != nil {
		return nil, nil, err
	}
	envData, err := s.seal(password, doc)
	if err != nil {
		return nil, nil, err
	}
	return credData, envData, nil
}

// seal encrypts doc under a key derived from a fresh salt, with a fresh nonce.
func (s *Store[D]) seal(password []byte, doc D) ([]byte, error) {
	plaintext, err := s.opts.codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.NewNonce()
	if err != nil {
		return nil, err
	}

	key, err := crypto.Derive(password, salt, s.opts.params)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ciphertext, err := crypto.Seal(s.opts.cipher, key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt document: %w", err)
	}

	return envelope.Encode(&envelope.Envelope{
		Version:    envelope.Version,
		KDF:        s.opts.params,
		Cipher:     s.opts.cipher,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
}

// decrypt opens env with a key derived from password and the envelope's own
// salt and KDF params.
func (s *Store[D]) decrypt(env *envelope.Envelope, password []byte) (D, error) {
	var doc D

	key, err := crypto.Derive(password, env.Salt, env.KDF)
	if err != nil {
		return doc, err
	}
	defer crypto.ClearBytes(key)

	plaintext, err := crypto.Open(env.Cipher, key, env.Nonce, env.Ciphertext)
	if err != nil {
		return doc, err
	}
	defer crypto.ClearBytes(plaintext)

	if err := s.opts.codec.Unmarshal(plaintext, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}
