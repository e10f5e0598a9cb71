// Package security confines backup file access to a single directory.
package security

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupPerm is the mode of exported backup files.
const BackupPerm os.FileMode = 0600

// MaxBackupSize bounds how much ReadBackup will load.
const MaxBackupSize = 64 << 20

var (
	ErrPathEscapes   = errors.New("path escapes backup directory")
	ErrAbsolutePath  = errors.New("absolute paths are not allowed")
	ErrEmptyPath     = errors.New("empty path not allowed")
	ErrBackupExists  = errors.New("backup file already exists")
	ErrBackupTooLong = errors.New("backup file too large")
)

// BackupDir reads and writes backup files inside one directory, using
// os.Root so that no path can leave it.
type BackupDir struct {
	root *os.Root
	path string
}

// OpenBackupDir opens dir as the confinement root.
func OpenBackupDir(dir string) (*BackupDir, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup directory: %w", err)
	}

	return &BackupDir{root: root, path: absPath}, nil
}

// Close releases the root.
func (d *BackupDir) Close() error {
	if d.root != nil {
		return d.root.Close()
	}
	return nil
}

// Path is the absolute directory path.
func (d *BackupDir) Path() string {
	return d.path
}

// Clean validates a user-provided file name and returns it cleaned and
// relative to the directory.
func (d *BackupDir) Clean(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(userPath) {
		return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
	}

	clean := filepath.Clean(userPath)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}
	return clean, nil
}

// WriteBackup writes data with BackupPerm. An existing file is only
// replaced when overwrite is set.
func (d *BackupDir) WriteBackup(name string, data []byte, overwrite bool) error {
	clean, err := d.Clean(name)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := d.root.OpenFile(clean, flags, BackupPerm)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrBackupExists, clean)
	}
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	// O_TRUNC on an existing file keeps its old mode.
	if err := f.Chmod(BackupPerm); err != nil {
		f.Close()
		return fmt.Errorf("failed to set backup permissions: %w", err)
	}
	return f.Close()
}

// ReadBackup reads a backup file of at most MaxBackupSize bytes.
func (d *BackupDir) ReadBackup(name string) ([]byte, error) {
	clean, err := d.Clean(name)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	f, err := d.root.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBackupSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if len(data) > MaxBackupSize {
		return nil, fmt.Errorf("%w: %s", ErrBackupTooLong, clean)
	}
	return data, nil
}
