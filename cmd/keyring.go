package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/keyring"
	"github.com/ambrosios/monorga/internal/prompt"
)

// KeyringSave verifies the password and saves it to the OS keyring
func (rt *Runtime) KeyringSave(ctx context.Context) {
	s := rt.mustOpen()
	defer s.Close()

	password, err := prompt.ReadPassword("Enter password: ")
	if err != nil {
		s.Close()
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if _, err := s.store.Unlock(ctx, password); err != nil {
		s.Close()
		HandleError(err)
	}

	// Get vault ID (create if not exists)
	vaultID, err := s.db.GetOrCreateVaultID()
	if err != nil {
		s.Close()
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		s.Close()
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func (rt *Runtime) KeyringDelete() {
	s := rt.mustOpen()
	defer s.Close()

	if s.vaultID == "" || !keyring.HasPassword(s.vaultID) {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(s.vaultID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to delete from keyring: %s\n", err)
		s.Close()
		os.Exit(1)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func (rt *Runtime) KeyringStatus() {
	s := rt.mustOpen()
	defer s.Close()

	if s.vaultID != "" && keyring.HasPassword(s.vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
