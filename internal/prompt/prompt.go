// Package prompt reads passwords and confirmations from the terminal.
//
// Prompts go to stderr so that command output on stdout stays clean.
// When stdin is not a terminal, passwords are read one per line, which lets
// scripts pipe them in.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/ambrosios/monorga/internal/crypto"
)

var (
	ErrMismatch   = errors.New("passwords do not match")
	ErrEmptyInput = errors.New("empty password")
)

var (
	stdinOnce   sync.Once
	stdinReader *bufio.Reader
)

// stdin shares one buffered reader so consecutive piped reads do not
// lose buffered lines.
func stdin() *bufio.Reader {
	stdinOnce.Do(func() { stdinReader = bufio.NewReader(os.Stdin) })
	return stdinReader
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !IsTerminal() {
		password, err := readLine(stdin())
		fmt.Fprintln(os.Stderr)
		return password, err
	}

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return nil, ErrEmptyInput
	}
	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(label string) ([]byte, error) {
	password1, err := ReadPassword(fmt.Sprintf("Enter %s: ", label))
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword(fmt.Sprintf("Confirm %s: ", label))
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	return matchPasswords(password1, password2)
}

// Confirm asks a yes/no question; anything but y or yes is no.
func Confirm(question string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	return parseYes(stdin())
}

func matchPasswords(a, b []byte) ([]byte, error) {
	if !crypto.ConstantTimeCompare(a, b) {
		return nil, ErrMismatch
	}
	// Return a copy, the inputs are cleared by the caller
	result := make([]byte, len(a))
	copy(result, a)
	return result, nil
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		crypto.ClearBytes(line)
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	trimmed := len(line)
	for trimmed > 0 && (line[trimmed-1] == '\n' || line[trimmed-1] == '\r') {
		trimmed--
	}
	if trimmed == 0 {
		return nil, ErrEmptyInput
	}

	password := make([]byte, trimmed)
	copy(password, line)
	crypto.ClearBytes(line)
	return password, nil
}

func parseYes(r *bufio.Reader) (bool, error) {
	answer, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
