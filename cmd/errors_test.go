package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/prompt"
	"github.com/ambrosios/monorga/internal/security"
	"github.com/ambrosios/monorga/internal/storage"
	"github.com/ambrosios/monorga/internal/vault"
)

const (
	vaultPassword  = "correcthorsebattery"
	backupPassword = "tr0ub4dor&3-staple"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"not initialized", ErrNotInitialized, []string{"vault not initialized", "monorga init"}},
		{"already initialized", vault.ErrAlreadyInitialized, []string{"already initialized", "monorga status"}},
		{"wrong password", fmt.Errorf("unlock: %w", vault.ErrInvalidPassword), []string{"Error: wrong password\n"}},
		{"weak password", fmt.Errorf("%w: need 12 characters", vault.ErrWeakPassword), []string{"password too weak", "need 12 characters"}},
		{"corruption", fmt.Errorf("%w: %w", vault.ErrDataCorruption, vault.ErrMalformedEnvelope), []string{"tampered with", "Details:"}},
		{"malformed backup", fmt.Errorf("%w: bad salt", vault.ErrMalformedEnvelope), []string{"not a valid monorga backup", "bad salt"}},
		{"nothing saved", vault.ErrNoEnvelope, []string{"nothing has been saved yet"}},
		{"mismatch", prompt.ErrMismatch, []string{"passwords do not match"}},
		{"backup exists", fmt.Errorf("%w: board.json", security.ErrBackupExists), []string{"board.json", "--force"}},
		{"interrupted", context.Canceled, []string{"Error: interrupted\n"}},
		{"other", errors.New("disk full"), []string{"Error: disk full\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := errorMessage(tt.err)
			for _, want := range tt.want {
				assert.Contains(t, msg, want)
			}
		})
	}

	// Corruption takes precedence over the malformed envelope it wraps.
	msg := errorMessage(fmt.Errorf("%w: %w", vault.ErrDataCorruption, vault.ErrMalformedEnvelope))
	assert.NotContains(t, msg, "not a valid monorga backup")
}

func newBoardStore(t *testing.T, password string, b board.Board) *vault.Store[board.Board] {
	t.Helper()
	store, err := vault.New[board.Board](storage.NewMemory(),
		vault.WithParams(crypto.Params{Algorithm: crypto.PBKDF2SHA256, Iterations: crypto.MinIterations}),
	)
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background(), []byte(password), b))
	return store
}

func TestImportBackup(t *testing.T) {
	ctx := context.Background()
	card, err := board.NewCard("from backup", "", board.StatusDone)
	require.NoError(t, err)
	saved := board.Board{Cards: []board.Card{card}}

	sameSource := newBoardStore(t, vaultPassword, saved)
	samePassword, err := sameSource.ExportEnvelope(ctx)
	require.NoError(t, err)
	otherSource := newBoardStore(t, backupPassword, saved)
	otherPassword, err := otherSource.ExportEnvelope(ctx)
	require.NoError(t, err)

	store := newBoardStore(t, vaultPassword, board.Board{})

	asked := 0
	ask := func(password string) func() ([]byte, error) {
		return func() ([]byte, error) {
			asked++
			return []byte(password), nil
		}
	}

	t.Run("vault password", func(t *testing.T) {
		asked = 0
		got, err := importBackup(ctx, store, samePassword, []byte(vaultPassword), ask(backupPassword))
		require.NoError(t, err)
		assert.Equal(t, saved, got)
		assert.Zero(t, asked)
	})

	t.Run("backup password", func(t *testing.T) {
		asked = 0
		got, err := importBackup(ctx, store, otherPassword, []byte(vaultPassword), ask(backupPassword))
		require.NoError(t, err)
		assert.Equal(t, saved, got)
		assert.Equal(t, 1, asked)
	})

	t.Run("wrong backup password", func(t *testing.T) {
		asked = 0
		_, err := importBackup(ctx, store, otherPassword, []byte(vaultPassword), ask("not-the-password"))
		assert.ErrorIs(t, err, vault.ErrInvalidPassword)
		assert.Equal(t, 1, asked)
	})

	t.Run("no terminal", func(t *testing.T) {
		_, err := importBackup(ctx, store, otherPassword, []byte(vaultPassword), nil)
		assert.ErrorIs(t, err, vault.ErrInvalidPassword)
	})

	t.Run("prompt fails", func(t *testing.T) {
		_, err := importBackup(ctx, store, otherPassword, []byte(vaultPassword), func() ([]byte, error) {
			return nil, prompt.ErrMismatch
		})
		assert.ErrorIs(t, err, prompt.ErrMismatch)
	})

	t.Run("not a backup", func(t *testing.T) {
		asked = 0
		_, err := importBackup(ctx, store, []byte("not a backup"), []byte(vaultPassword), ask(backupPassword))
		assert.ErrorIs(t, err, vault.ErrMalformedEnvelope)
		assert.Zero(t, asked)
	})
}
