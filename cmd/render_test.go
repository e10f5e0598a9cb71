package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambrosios/monorga/internal/board"
)

func TestRenderBoard(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	b := board.Board{Cards: []board.Card{
		{ID: "0123456789abcdef", Title: "Write report", Status: board.StatusTodo, DueDate: "2024-03-01"},
		{ID: "fedcba98", Title: "Review", Status: board.StatusDoing, Description: "line one\nline two"},
		{ID: "aa", Title: "Later", Status: board.StatusTodo, DueDate: "2024-06-01"},
	}}

	out := renderBoard(b, "", now)
	assert.Contains(t, out, "TODO (2)\n")
	assert.Contains(t, out, "  [01234567] Write report (due 2024-03-01, overdue)\n")
	assert.Contains(t, out, "  [aa] Later (due 2024-06-01)\n")
	assert.Contains(t, out, "DOING (1)\n")
	assert.Contains(t, out, "      line one line two\n")
	assert.Contains(t, out, "DONE (0)\n  (none)\n")

	only := renderBoard(b, board.StatusDoing, now)
	assert.NotContains(t, only, "TODO")
	assert.Contains(t, only, "Review")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé...", truncate("éééé", 3))
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		0:           "0 B",
		1023:        "1023 B",
		1024:        "1.0 KiB",
		1536:        "1.5 KiB",
		1024 * 1024: "1.0 MiB",
	}
	for size, want := range tests {
		assert.Equal(t, want, formatSize(size))
	}
}

func TestApplyFields(t *testing.T) {
	card, err := board.NewCard("Original", "", board.StatusTodo)
	require.NoError(t, err)

	title, status, due := " Renamed ", "DONE", "2024-12-31"
	require.NoError(t, applyFields(&card, CardFields{Title: &title, Status: &status, DueDate: &due}))
	assert.Equal(t, "Renamed", card.Title)
	assert.Equal(t, board.StatusDone, card.Status)
	assert.Equal(t, "2024-12-31", card.DueDate)

	bad := "someday"
	before := card
	assert.ErrorIs(t, applyFields(&card, CardFields{Title: &title, DueDate: &bad}), board.ErrInvalidDate)
	assert.Equal(t, before, card)

	empty := ""
	assert.ErrorIs(t, applyFields(&card, CardFields{Title: &empty}), board.ErrTitleRequired)
	assert.True(t, strings.HasPrefix(card.Title, "Renamed"))
}
