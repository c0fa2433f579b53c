// Package table lays out plain-text columns for command output.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Options tunes Format.
type Options struct {
	Alignments []Alignment
	// MaxWidth caps each column; longer cells are cut with an ellipsis.
	// Zero means unlimited.
	MaxWidth int
}

// Format returns the rows padded according to the widest entry in each
// column. Rows may be ragged; missing cells render empty.
func Format(rows [][]string, opts Options) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	cells := make([][]string, len(rows))
	widths := make([]int, colCount)
	for r, row := range rows {
		cells[r] = make([]string, colCount)
		for c, cell := range row {
			if opts.MaxWidth > 0 && ansi.StringWidth(cell) > opts.MaxWidth {
				cell = truncate.StringWithTail(cell, uint(opts.MaxWidth), "…")
			}
			cells[r][c] = cell
			if width := ansi.StringWidth(cell); width > widths[c] {
				widths[c] = width
			}
		}
	}
	out := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - ansi.StringWidth(cell)
			if c < len(opts.Alignments) && opts.Alignments[c] == AlignRight {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
				b.WriteString(cell)
			} else if c < len(row)-1 {
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
			} else {
				b.WriteString(cell)
			}
		}
		out[i] = b.String()
	}
	return out
}
