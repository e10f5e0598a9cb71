package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ambrosios/monorga/internal/envelope"
	"github.com/ambrosios/monorga/internal/git"
	"github.com/ambrosios/monorga/internal/keyring"
	"github.com/ambrosios/monorga/internal/vault"
)

// Status shows the state of the vault file. Does not require a password.
func (rt *Runtime) Status(ctx context.Context) {
	path := rt.Config.VaultPath

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No vault found at %s\n", path)
			fmt.Println("Run 'monorga init' to create one")
			return
		}
		HandleError(err)
	}

	s, err := rt.openSession(false)
	if err != nil {
		HandleError(err)
	}
	defer s.Close()

	fmt.Printf("Vault: %s (%s)\n", path, formatSize(info.Size()))

	ok, err := s.store.IsInitialized()
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if !ok {
		fmt.Println("   state: not initialized (run: monorga init)")
		return
	}

	if created, err := s.db.GetCreated(); err == nil {
		fmt.Printf("   created:  %s\n", created.Format(time.RFC3339))
	}
	if modified, err := s.db.GetModified(); err == nil {
		fmt.Printf("   modified: %s\n", modified.Format(time.RFC3339))
	}

	data, err := s.store.ExportEnvelope(ctx)
	switch {
	case errors.Is(err, vault.ErrNoEnvelope):
		fmt.Println("   board: empty (nothing saved yet)")
	case err != nil:
		fmt.Printf("   board: unreadable (%s)\n", err)
	default:
		env, err := envelope.Decode(data)
		if err != nil {
			fmt.Printf("   board: unreadable (%s)\n", err)
			break
		}
		fmt.Printf("   encryption: %s, key derivation: %s", env.Cipher, env.KDF.Algorithm)
		if env.KDF.Iterations > 0 {
			fmt.Printf(" (%d iterations)", env.KDF.Iterations)
		}
		fmt.Println()
		if want := rt.Config.KDFParams(); env.KDF != want {
			fmt.Println("   note: the next save will re-encrypt with the configured parameters")
		}
	}

	switch {
	case !rt.Config.Keyring:
		fmt.Println("   keyring: disabled")
	case s.vaultID != "" && keyring.HasPassword(s.vaultID):
		fmt.Println("   keyring: password stored")
	default:
		fmt.Println("   keyring: not stored")
	}

	fmt.Print(git.Format(git.Check(ctx, path), path))
}
