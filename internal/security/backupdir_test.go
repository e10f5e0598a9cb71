package security

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestBackupDir_Clean(t *testing.T) {
	dir, err := OpenBackupDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open backup dir: %v", err)
	}
	defer dir.Close()

	tests := []struct {
		name    string
		input   string
		want    string
		errType error
	}{
		{"simple file", "board.json", "board.json", nil},
		{"subdirectory", "backups/board.json", filepath.Join("backups", "board.json"), nil},
		{"dot slash", "./board.json", "board.json", nil},
		{"dot segments", "a/./b/../board.json", filepath.Join("a", "board.json"), nil},

		{"parent directory", "../board.json", "", ErrPathEscapes},
		{"nested parent", "a/../../board.json", "", ErrPathEscapes},
		{"absolute path", "/etc/passwd", "", ErrAbsolutePath},
		{"empty path", "", "", ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.Clean(tt.input)
			if tt.errType != nil {
				if !errors.Is(err, tt.errType) {
					t.Errorf("Clean(%q) error = %v, want %v", tt.input, err, tt.errType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Clean(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBackupDir_WriteRead(t *testing.T) {
	tmp := t.TempDir()
	dir, err := OpenBackupDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	defer dir.Close()

	data := []byte(`{"version":1}`)
	if err := dir.WriteBackup("backup.json", data, false); err != nil {
		t.Fatalf("WriteBackup failed: %v", err)
	}

	got, err := dir.ReadBackup("backup.json")
	if err != nil {
		t.Fatalf("ReadBackup failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadBackup = %q, want %q", got, data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(tmp, "backup.json"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != BackupPerm {
			t.Errorf("backup mode = %v, want %v", info.Mode().Perm(), BackupPerm)
		}
	}
}

func TestBackupDir_Overwrite(t *testing.T) {
	tmp := t.TempDir()
	dir, err := OpenBackupDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	defer dir.Close()

	if err := os.WriteFile(filepath.Join(tmp, "old.json"), []byte("previous contents"), 0644); err != nil {
		t.Fatal(err)
	}

	err = dir.WriteBackup("old.json", []byte("new"), false)
	if !errors.Is(err, ErrBackupExists) {
		t.Fatalf("expected ErrBackupExists, got %v", err)
	}

	if err := dir.WriteBackup("old.json", []byte("new"), true); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ := dir.ReadBackup("old.json")
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	if runtime.GOOS != "windows" {
		info, _ := os.Stat(filepath.Join(tmp, "old.json"))
		if info.Mode().Perm() != BackupPerm {
			t.Errorf("overwritten backup mode = %v, want %v", info.Mode().Perm(), BackupPerm)
		}
	}
}

func TestBackupDir_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	tmp := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(tmp, "link")); err != nil {
		t.Fatal(err)
	}

	dir, err := OpenBackupDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	defer dir.Close()

	if _, err := dir.ReadBackup("link/secret"); err == nil {
		t.Error("expected reading through a symlink out of the root to fail")
	}
	if err := dir.WriteBackup("link/new.json", []byte("x"), false); err == nil {
		t.Error("expected writing through a symlink out of the root to fail")
	}
}

func TestBackupDir_MissingFile(t *testing.T) {
	dir, err := OpenBackupDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer dir.Close()

	_, err = dir.ReadBackup("missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
