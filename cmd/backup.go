package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/crypto"
	"github.com/ambrosios/monorga/internal/prompt"
	"github.com/ambrosios/monorga/internal/vault"
)

// Export writes the stored envelope to a backup file. No password is needed:
// the backup stays encrypted under the vault password.
func (rt *Runtime) Export(ctx context.Context, file string, force bool) {
	s := rt.mustOpen()
	defer s.Close()

	data, err := s.store.ExportEnvelope(ctx)
	if err != nil {
		s.Close()
		HandleError(err)
	}

	dir := openBackupDir()
	defer dir.Close()

	if err := dir.WriteBackup(file, data, force); err != nil {
		s.Close()
		HandleError(err)
	}

	fmt.Printf("exported: %s (%s)\n", file, formatSize(int64(len(data))))
}

// Import replaces the board with the contents of a backup file after
// showing what changes
func (rt *Runtime) Import(ctx context.Context, file string, yes bool) {
	s, current, imported := rt.loadBackup(ctx, file)
	defer s.Close()

	diff, err := board.Diff(current, imported)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if diff == "" {
		fmt.Println("backup matches the vault, nothing to import")
		return
	}

	counts := imported.Counts()
	fmt.Printf("backup: %d cards (todo %d, doing %d, done %d), vault: %d cards\n",
		len(imported.Cards), counts[board.StatusTodo], counts[board.StatusDoing], counts[board.StatusDone],
		len(current.Cards))

	if !yes {
		ok, err := prompt.Confirm("Replace the board with the backup?")
		if err != nil {
			s.Close()
			HandleError(err)
		}
		if !ok {
			fmt.Println("import cancelled")
			return
		}
	}

	s.mustSave(ctx, imported)
	fmt.Printf("imported: %s\n", file)
}

// Diff compares a backup file with the vault
func (rt *Runtime) Diff(ctx context.Context, file string) {
	s, current, imported := rt.loadBackup(ctx, file)
	defer s.Close()

	diff, err := board.Diff(current, imported)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if diff == "" {
		fmt.Println("no differences")
		return
	}

	fmt.Printf("--- vault\n+++ %s\n", file)
	fmt.Print(diff)
}

// loadBackup unlocks the vault and decrypts a backup file. The session
// password is tried first, then the user is asked for the backup password.
func (rt *Runtime) loadBackup(ctx context.Context, file string) (*Session, board.Board, board.Board) {
	dir := openBackupDir()
	data, err := dir.ReadBackup(file)
	dir.Close()
	if err != nil {
		HandleError(err)
	}

	s := rt.mustOpen()
	current, password := s.mustUnlock(ctx)
	defer crypto.ClearBytes(password)

	var ask func() ([]byte, error)
	if prompt.IsTerminal() {
		ask = func() ([]byte, error) {
			fmt.Fprintln(os.Stderr, "backup was not written with the vault password")
			return prompt.ReadPassword("Enter backup password: ")
		}
	}
	imported, err := importBackup(ctx, s.store, data, password, ask)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	return s, current, imported
}

// importBackup decrypts a backup with the vault password. When that
// password is wrong and ask is set, ask supplies a backup password for a
// second attempt.
func importBackup(ctx context.Context, store *vault.Store[board.Board], data, password []byte, ask func() ([]byte, error)) (board.Board, error) {
	imported, err := store.ImportEnvelope(ctx, data, password)
	if !errors.Is(err, vault.ErrInvalidPassword) || ask == nil {
		return imported, err
	}

	backupPassword, err := ask()
	if err != nil {
		return board.Board{}, err
	}
	defer crypto.ClearBytes(backupPassword)
	return store.ImportEnvelope(ctx, data, backupPassword)
}
