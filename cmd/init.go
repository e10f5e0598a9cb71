package cmd

import (
	"context"
	"fmt"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/vault"
)

// Init creates the vault file with an empty board
func (rt *Runtime) Init(ctx context.Context) {
	s, err := rt.openSession(true)
	if err != nil {
		HandleError(err)
	}
	defer s.Close()

	ok, err := s.store.IsInitialized()
	if err != nil {
		HandleError(err)
	}
	if ok {
		HandleError(vault.ErrAlreadyInitialized)
	}

	password, source, err := rt.GetNewPassword("password")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := s.store.Initialize(ctx, password, board.Board{Cards: []board.Card{}}); err != nil {
		HandleError(err)
	}

	vaultID, err := s.db.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}
	s.vaultID = vaultID

	fmt.Printf("initialized: %s\n", rt.Config.VaultPath)

	if source == SourcePrompt {
		s.offerToSavePassword(password)
	}
}
