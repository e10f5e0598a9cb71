package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/config"
	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/keyring"
	"github.com/ambrosios/monorga/internal/logger"
	"github.com/ambrosios/monorga/internal/prompt"
	"github.com/ambrosios/monorga/internal/security"
	"github.com/ambrosios/monorga/internal/storage"
	"github.com/ambrosios/monorga/internal/vault"
)

// ErrNotInitialized is returned when the vault file or its credential is missing.
var ErrNotInitialized = errors.New("vault not initialized")

// PasswordSource records where a password came from.
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// Runtime carries the configuration and logger shared by all commands.
type Runtime struct {
	Config *config.Config
	Log    *logger.Logger
}

// NewRuntime loads configuration from the environment and exits on error.
func NewRuntime() *Runtime {
	cfg, err := config.Load()
	if err != nil {
		HandleError(err)
	}
	return &Runtime{
		Config: cfg,
		Log:    logger.New("cli", cfg.LogLevel),
	}
}

// Session is an open vault file and the board store on top of it.
type Session struct {
	rt      *Runtime
	db      *storage.Storage
	store   *vault.Store[board.Board]
	vaultID string
}

// openSession opens the vault file. Unless create is set, the file must
// already exist.
func (rt *Runtime) openSession(create bool) (*Session, error) {
	path := rt.Config.VaultPath
	if !create {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	store, err := vault.New[board.Board](db,
		vault.WithParams(rt.Config.KDFParams()),
		vault.WithCipher(rt.Config.Cipher),
		vault.WithMinPasswordLength(rt.Config.MinPasswordLength),
		vault.WithLogger(rt.Log),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	vaultID, _ := db.GetVaultID()
	return &Session{rt: rt, db: db, store: store, vaultID: vaultID}, nil
}

// mustOpen opens an initialized vault or exits.
func (rt *Runtime) mustOpen() *Session {
	s, err := rt.openSession(false)
	if err != nil {
		HandleError(err)
	}
	ok, err := s.store.IsInitialized()
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if !ok {
		s.Close()
		HandleError(ErrNotInitialized)
	}
	return s
}

// Close locks the store and closes the vault file.
func (s *Session) Close() {
	s.store.Lock()
	if err := s.db.Close(); err != nil {
		s.rt.Log.Warn().Err(err).Msg("failed to close vault file")
	}
}

// GetPassword retrieves the password from the environment, the keyring, or
// a prompt, in that order.
// The caller is responsible for calling crypto.ClearBytes on the returned password
func (rt *Runtime) GetPassword(label, vaultID string) ([]byte, PasswordSource, error) {
	if rt.Config.Password != "" {
		return []byte(rt.Config.Password), SourceEnv, nil
	}

	if rt.Config.Keyring && vaultID != "" {
		if password, err := keyring.GetPassword(vaultID); err == nil {
			return password, SourceKeyring, nil
		}
	}

	password, err := prompt.ReadPassword(label)
	if err != nil {
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

// GetNewPassword reads a password for a new credential: the environment
// first, then a confirmed prompt.
func (rt *Runtime) GetNewPassword(label string) ([]byte, PasswordSource, error) {
	if rt.Config.Password != "" {
		return []byte(rt.Config.Password), SourceEnv, nil
	}
	password, err := prompt.ReadPasswordConfirm(label)
	return password, SourcePrompt, err
}

// Unlock opens the board. A stale keyring password is dropped and the user
// is prompted instead. The returned password belongs to the caller.
func (s *Session) Unlock(ctx context.Context) (board.Board, []byte, error) {
	password, source, err := s.rt.GetPassword("Enter password: ", s.vaultID)
	if err != nil {
		return board.Board{}, nil, err
	}

	b, err := s.store.Unlock(ctx, password)
	if errors.Is(err, vault.ErrInvalidPassword) && source == SourceKeyring {
		fmt.Fprintln(os.Stderr, "warning: password in keyring is outdated, removing it")
		if err := keyring.DeletePassword(s.vaultID); err != nil {
			s.rt.Log.Warn().Err(err).Msg("failed to delete stale keyring entry")
		}
		crypto.ClearBytes(password)

		password, err = prompt.ReadPassword("Enter password: ")
		if err != nil {
			return board.Board{}, nil, err
		}
		source = SourcePrompt
		b, err = s.store.Unlock(ctx, password)
	}
	if err != nil {
		crypto.ClearBytes(password)
		return board.Board{}, nil, err
	}

	if source == SourcePrompt {
		s.offerToSavePassword(password)
	}
	return b, password, nil
}

// mustUnlock is Unlock that exits on error.
func (s *Session) mustUnlock(ctx context.Context) (board.Board, []byte) {
	b, password, err := s.Unlock(ctx)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	return b, password
}

// mustSave saves the board or exits.
func (s *Session) mustSave(ctx context.Context, b board.Board) {
	if err := s.store.Save(ctx, b); err != nil {
		s.Close()
		HandleError(err)
	}
}

// offerToSavePassword asks once whether to cache a typed password.
func (s *Session) offerToSavePassword(password []byte) {
	if !s.rt.Config.Keyring || !prompt.IsTerminal() {
		return
	}

	vaultID, err := s.db.GetOrCreateVaultID()
	if err != nil || keyring.HasPassword(vaultID) {
		return
	}
	s.vaultID = vaultID

	ok, err := prompt.Confirm("Save password to keyring?")
	if err != nil || !ok {
		return
	}
	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Password saved to keyring")
}

// openBackupDir confines backup files to the working directory.
func openBackupDir() *security.BackupDir {
	dir, err := security.OpenBackupDir(".")
	if err != nil {
		HandleError(err)
	}
	return dir
}

// HandleError prints a message for err and exits
func HandleError(err error) {
	fmt.Fprint(os.Stderr, errorMessage(err))
	os.Exit(1)
}

// errorMessage maps err to the text shown to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotInitialized):
		return "Error: vault not initialized\nRun 'monorga init' first\n"
	case errors.Is(err, vault.ErrAlreadyInitialized):
		return "Error: vault already initialized\nUse 'monorga status' to see current state\n"
	case errors.Is(err, vault.ErrInvalidPassword):
		return "Error: wrong password\n"
	case errors.Is(err, vault.ErrWeakPassword):
		return fmt.Sprintf("Error: password too weak: %s\n", err)
	case errors.Is(err, vault.ErrDataCorruption):
		return fmt.Sprintf("Error: vault data is corrupted or has been tampered with\nDetails: %s\n", err)
	case errors.Is(err, vault.ErrMalformedEnvelope):
		return fmt.Sprintf("Error: not a valid monorga backup: %s\n", err)
	case errors.Is(err, vault.ErrNoEnvelope):
		return "Error: nothing has been saved yet\n"
	case errors.Is(err, prompt.ErrMismatch):
		return "Error: passwords do not match\n"
	case errors.Is(err, security.ErrBackupExists):
		return fmt.Sprintf("Error: %s\nUse --force to overwrite\n", err)
	case errors.Is(err, context.Canceled):
		return "Error: interrupted\n"
	default:
		return fmt.Sprintf("Error: %s\n", err)
	}
}
