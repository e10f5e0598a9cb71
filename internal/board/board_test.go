package board

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	c, err := NewCard("  Write report ", " draft first ", "")
	require.NoError(t, err)

	_, err = uuid.Parse(c.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Write report", c.Title)
	assert.Equal(t, "draft first", c.Description)
	assert.Equal(t, StatusTodo, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	_, err = NewCard("   ", "", StatusTodo)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewCard("x", "", Status("blocked"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"Doing", StatusDoing, false},
		{" DONE ", StatusDone, false},
		{"later", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidStatus, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMoveFindRemove(t *testing.T) {
	var b Board
	first, err := NewCard("first", "", StatusTodo)
	require.NoError(t, err)
	second, err := NewCard("second", "", StatusTodo)
	require.NoError(t, err)
	b.Add(first)
	b.Add(second)

	moved, err := b.Move(first.ID, StatusDoing)
	require.NoError(t, err)
	assert.True(t, moved)

	c, err := b.Find(first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDoing, c.Status)
	assert.False(t, c.UpdatedAt.Before(first.UpdatedAt))

	moved, err = b.Move(first.ID, StatusDoing)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = b.Move(first.ID, Status("archive"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	removed, err := b.Remove(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", removed.Title)
	assert.Len(t, b.Cards, 1)

	_, err = b.Remove(second.ID)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestFindByPrefix(t *testing.T) {
	b := Board{Cards: []Card{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
		{ID: "ab", Title: "exact"},
	}}

	c, err := b.Find("abc")
	require.NoError(t, err)
	assert.Equal(t, "one", c.Title)

	c, err = b.Find("ab")
	require.NoError(t, err)
	assert.Equal(t, "exact", c.Title)

	_, err = b.Find("a")
	assert.ErrorIs(t, err, ErrCardNotFound)
	_, err = b.Find("")
	assert.ErrorIs(t, err, ErrCardNotFound)
	_, err = b.Find("zzz")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestCountsAndColumns(t *testing.T) {
	b := Board{Cards: []Card{
		{ID: "1", Status: StatusTodo},
		{ID: "2", Status: StatusDone},
		{ID: "3", Status: StatusTodo},
	}}

	assert.Equal(t, map[Status]int{StatusTodo: 2, StatusDoing: 0, StatusDone: 1}, b.Counts())
	assert.Len(t, b.Column(StatusTodo), 2)
	assert.Empty(t, b.Column(StatusDoing))
}

func TestDueState(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	tests := map[string]string{
		"":           "",
		"2024-03-09": "overdue",
		"2024-03-10": "soon",
		"2024-03-12": "soon",
		"2024-03-13": "normal",
	}
	for due, want := range tests {
		c := Card{DueDate: due}
		assert.Equal(t, want, c.DueState(now), due)
	}
}

func TestSetDueDate(t *testing.T) {
	var c Card
	require.NoError(t, c.SetDueDate("2024-12-31"))
	assert.Equal(t, "2024-12-31", c.DueDate)

	assert.ErrorIs(t, c.SetDueDate("31/12/2024"), ErrInvalidDate)
	assert.Equal(t, "2024-12-31", c.DueDate)

	require.NoError(t, c.SetDueDate(""))
	assert.Empty(t, c.DueDate)
}

func TestDiff(t *testing.T) {
	a := Board{Cards: []Card{{ID: "1", Title: "keep", Status: StatusTodo}}}

	out, err := Diff(a, a)
	require.NoError(t, err)
	assert.Empty(t, out)

	b := Board{Cards: []Card{{ID: "1", Title: "renamed", Status: StatusTodo}}}
	out, err = Diff(a, b)
	require.NoError(t, err)
	assert.Contains(t, out, `-      "title": "keep",`)
	assert.Contains(t, out, `+      "title": "renamed",`)
	assert.Contains(t, out, `       "id": "1",`)

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Contains(t, []string{" ", "-", "+"}, line[:1])
	}
}

func TestSetTitle(t *testing.T) {
	c := Card{Title: "old"}
	require.NoError(t, c.SetTitle("  new title "))
	assert.Equal(t, "new title", c.Title)

	assert.ErrorIs(t, c.SetTitle(" "), ErrTitleRequired)
	assert.Equal(t, "new title", c.Title)
}
