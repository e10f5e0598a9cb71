package board

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff from a to b over their indented JSON, with
// "-", "+" and " " prefixes. It returns "" when the boards are identical.
func Diff(a, b Board) (string, error) {
	left, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode board: %w", err)
	}
	right, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode board: %w", err)
	}
	if string(left) == string(right) {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	l, r, lineArray := dmp.DiffLinesToChars(string(left)+"\n", string(right)+"\n")
	diffs := dmp.DiffMain(l, r, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String(), nil
}
