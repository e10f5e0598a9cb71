package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/crypto"
)

// CardFields are the optional fields of add and edit. Nil means unchanged.
type CardFields struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
}

// Add creates a card and saves the board
func (rt *Runtime) Add(ctx context.Context, title string, f CardFields) {
	var status board.Status
	if f.Status != nil {
		st, err := board.ParseStatus(*f.Status)
		if err != nil {
			HandleError(err)
		}
		status = st
	}
	description := ""
	if f.Description != nil {
		description = *f.Description
	}

	card, err := board.NewCard(title, description, status)
	if err != nil {
		HandleError(err)
	}
	if f.DueDate != nil {
		if err := card.SetDueDate(*f.DueDate); err != nil {
			HandleError(err)
		}
	}

	s := rt.mustOpen()
	defer s.Close()

	b, password := s.mustUnlock(ctx)
	crypto.ClearBytes(password)

	b.Add(card)
	s.mustSave(ctx, b)

	fmt.Printf("added: [%s] %s (%s)\n", shortID(card.ID), card.Title, card.Status)
}

// Edit updates the given fields of a card
func (rt *Runtime) Edit(ctx context.Context, id string, f CardFields) {
	if f.Title == nil && f.Description == nil && f.Status == nil && f.DueDate == nil {
		fmt.Fprintf(os.Stderr, "Error: nothing to change\n")
		fmt.Fprintf(os.Stderr, "Usage: monorga edit <id> [-t title] [-d description] [-s status] [--due date]\n")
		os.Exit(1)
	}

	s := rt.mustOpen()
	defer s.Close()

	b, password := s.mustUnlock(ctx)
	crypto.ClearBytes(password)

	card, err := b.Find(id)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if err := applyFields(card, f); err != nil {
		s.Close()
		HandleError(err)
	}
	s.mustSave(ctx, b)

	fmt.Printf("updated: [%s] %s\n", shortID(card.ID), card.Title)
}

func applyFields(card *board.Card, f CardFields) error {
	updated := *card
	if f.Title != nil {
		if err := updated.SetTitle(*f.Title); err != nil {
			return err
		}
	}
	if f.Description != nil {
		updated.Description = strings.TrimSpace(*f.Description)
	}
	if f.Status != nil {
		st, err := board.ParseStatus(*f.Status)
		if err != nil {
			return err
		}
		updated.Status = st
	}
	if f.DueDate != nil {
		if err := updated.SetDueDate(*f.DueDate); err != nil {
			return err
		}
	}
	updated.Touch()
	*card = updated
	return nil
}

// Move changes the column of a card
func (rt *Runtime) Move(ctx context.Context, id, column string) {
	status, err := board.ParseStatus(column)
	if err != nil {
		HandleError(err)
	}

	s := rt.mustOpen()
	defer s.Close()

	b, password := s.mustUnlock(ctx)
	crypto.ClearBytes(password)

	moved, err := b.Move(id, status)
	if err != nil {
		s.Close()
		HandleError(err)
	}
	if !moved {
		fmt.Printf("unchanged: card already in %s\n", status)
		return
	}
	s.mustSave(ctx, b)

	card, _ := b.Find(id)
	fmt.Printf("moved: [%s] %s -> %s\n", shortID(card.ID), card.Title, status)
}

// Remove deletes cards from the board
func (rt *Runtime) Remove(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one card id\n")
		fmt.Fprintf(os.Stderr, "Usage: monorga rm <id> [id...]\n")
		os.Exit(1)
	}

	s := rt.mustOpen()
	defer s.Close()

	b, password := s.mustUnlock(ctx)
	crypto.ClearBytes(password)

	var removed []board.Card
	for _, id := range ids {
		c, err := b.Remove(id)
		if err != nil {
			s.Close()
			HandleError(err)
		}
		removed = append(removed, c)
	}
	s.mustSave(ctx, b)

	for _, c := range removed {
		fmt.Printf("removed: [%s] %s\n", shortID(c.ID), c.Title)
	}
}
