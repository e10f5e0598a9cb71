package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/keyring"
	"github.com/ambrosios/monorga/internal/prompt"
)

// Passwd changes the vault password
func (rt *Runtime) Passwd(ctx context.Context) {
	s := rt.mustOpen()
	defer s.Close()

	// Unlock with the current password, retrying on a stale keyring entry
	_, currentPassword := s.mustUnlock(ctx)
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := rt.readNewPassword()
	if err != nil {
		s.Close()
		HandleError(err)
	}
	defer crypto.ClearBytes(newPassword)

	if err := s.store.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		s.Close()
		HandleError(err)
	}

	// Keep a cached password in step with the vault
	if s.vaultID != "" && keyring.HasPassword(s.vaultID) {
		if err := keyring.SavePassword(s.vaultID, newPassword); err == nil {
			fmt.Println("Keyring updated with new password")
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to update keyring: %s\n", err)
		}
	}

	// Compact database after rewriting both records
	if err := s.db.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("password changed successfully")
}

// readNewPassword always prompts: MONORGA_PASSWORD holds the current password.
func (rt *Runtime) readNewPassword() ([]byte, error) {
	return prompt.ReadPasswordConfirm("new password")
}
