package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ambrosios/monorga/internal/board"
	"github.com/ambrosios/monorga/internal/crypto"
)

// Show prints the board, optionally a single column, as text or JSON
func (rt *Runtime) Show(ctx context.Context, column string, asJSON bool) {
	var only board.Status
	if column != "" {
		st, err := board.ParseStatus(column)
		if err != nil {
			HandleError(err)
		}
		only = st
	}

	s := rt.mustOpen()
	defer s.Close()

	b, password := s.mustUnlock(ctx)
	crypto.ClearBytes(password)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if only != "" {
			b = board.Board{Cards: b.Column(only)}
		}
		if err := enc.Encode(b); err != nil {
			HandleError(err)
		}
		return
	}

	fmt.Print(renderBoard(b, only, time.Now()))
}

// shortID is the id prefix shown in listings; commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderBoard(b board.Board, only board.Status, now time.Time) string {
	counts := b.Counts()
	var out strings.Builder

	for _, st := range board.Statuses {
		if only != "" && st != only {
			continue
		}
		fmt.Fprintf(&out, "%s (%d)\n", strings.ToUpper(string(st)), counts[st])

		cards := b.Column(st)
		if len(cards) == 0 {
			out.WriteString("  (none)\n")
		}
		for _, c := range cards {
			fmt.Fprintf(&out, "  [%s] %s", shortID(c.ID), c.Title)
			if c.DueDate != "" {
				due := c.DueDate
				if state := c.DueState(now); state == "overdue" || state == "soon" {
					due += ", " + state
				}
				fmt.Fprintf(&out, " (due %s)", due)
			}
			out.WriteString("\n")
			if c.Description != "" {
				fmt.Fprintf(&out, "      %s\n", truncate(c.Description, 72))
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

func truncate(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
