// Package board is the card board document kept in the vault.
package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of Card.DueDate.
const DateLayout = "2006-01-02"

// SoonWindow is how far ahead a due date counts as coming up soon.
const SoonWindow = 2 * 24 * time.Hour

var (
	ErrTitleRequired = errors.New("card title is required")
	ErrInvalidStatus = errors.New("invalid card status")
	ErrInvalidDate   = errors.New("invalid due date")
	ErrCardNotFound  = errors.New("card not found")
)

// Status is the column a card sits in.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists the columns in board order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// ParseStatus accepts a column name case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want todo, doing or done)", ErrInvalidStatus, s)
}

// Card is a single task on the board.
type Card struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	DueDate     string    `json:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Board is the whole document: every card in insertion order.
type Board struct {
	Cards []Card `json:"cards"`
}

// NewCard builds a card with a fresh id. The title is trimmed and required.
func NewCard(title, description string, status Status) (Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Card{}, ErrTitleRequired
	}
	if status == "" {
		status = StatusTodo
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return Card{}, err
	}

	now := time.Now().UTC()
	return Card{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetTitle trims and sets a non-empty title.
func (c *Card) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	c.Title = title
	return nil
}

// Touch records a modification.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// SetDueDate validates and sets the due date. An empty string clears it.
func (c *Card) SetDueDate(date string) error {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, date)
		}
	}
	c.DueDate = date
	return nil
}

// DueState classifies the due date relative to now as "overdue", "soon",
// "normal", or "" when the card has no due date.
func (c Card) DueState(now time.Time) string {
	if c.DueDate == "" {
		return ""
	}
	due, err := time.ParseInLocation(DateLayout, c.DueDate, now.Location())
	if err != nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch d := due.Sub(today); {
	case d < 0:
		return "overdue"
	case d <= SoonWindow:
		return "soon"
	default:
		return "normal"
	}
}

// Add appends a card.
func (b *Board) Add(c Card) {
	b.Cards = append(b.Cards, c)
}

// Find returns the card with the given id or unique id prefix.
func (b *Board) Find(id string) (*Card, error) {
	idx, err := b.index(id)
	if err != nil {
		return nil, err
	}
	return &b.Cards[idx], nil
}

// Move changes a card's column. Moving to the current column is a no-op
// and reports false.
func (b *Board) Move(id string, to Status) (bool, error) {
	if _, err := ParseStatus(string(to)); err != nil {
		return false, err
	}
	c, err := b.Find(id)
	if err != nil {
		return false, err
	}
	if c.Status == to {
		return false, nil
	}
	c.Status = to
	c.Touch()
	return true, nil
}

// Remove deletes a card and returns it.
func (b *Board) Remove(id string) (Card, error) {
	idx, err := b.index(id)
	if err != nil {
		return Card{}, err
	}
	removed := b.Cards[idx]
	b.Cards = append(b.Cards[:idx], b.Cards[idx+1:]...)
	return removed, nil
}

// Counts returns the number of cards per column. Every known column is present.
func (b *Board) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, c := range b.Cards {
		counts[c.Status]++
	}
	return counts
}

// Column returns the cards of one column in board order.
func (b *Board) Column(st Status) []Card {
	var out []Card
	for _, c := range b.Cards {
		if c.Status == st {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) index(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, fmt.Errorf("%w: empty id", ErrCardNotFound)
	}

	for i, c := range b.Cards {
		if c.ID == id {
			return i, nil
		}
	}

	found := -1
	for i, c := range b.Cards {
		if strings.HasPrefix(c.ID, id) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: id prefix %q is ambiguous", ErrCardNotFound, id)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return found, nil
}
