package prompt

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("first secret\r\nsecond\nlast"))

	pw, err := readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "first secret", string(pw))

	pw, err = readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(pw))

	pw, err = readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "last", string(pw))

	_, err = readLine(r)
	assert.Error(t, err)
}

func TestReadLineEmpty(t *testing.T) {
	_, err := readLine(bufio.NewReader(strings.NewReader("\n")))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMatchPasswords(t *testing.T) {
	pw, err := matchPasswords([]byte("same-password"), []byte("same-password"))
	require.NoError(t, err)
	assert.Equal(t, "same-password", string(pw))

	_, err = matchPasswords([]byte("one-password"), []byte("two-password"))
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestParseYes(t *testing.T) {
	tests := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	}
	for in, want := range tests {
		got, err := parseYes(bufio.NewReader(strings.NewReader(in)))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
