// Package textutil fits text into fixed terminal regions.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is appended when a line is cut short.
const TruncateEllipsis = "…"

// Truncate cuts s to at most maxWidth terminal columns, ending in an
// ellipsis when anything was dropped.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, TruncateEllipsis)
}

// PadRight pads s with spaces to exactly width columns, truncating if needed.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return Truncate(s, width)
	}
	return runewidth.FillRight(s, width)
}

// Center places s in the middle of width columns.
func Center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return Truncate(s, width)
	}
	left := (width - w) / 2
	return PadRight(strings.Repeat(" ", left)+s, width)
}

// Block fits text into a width x height rectangle: lines are padded or
// truncated to width and the block is padded or clipped to height. Styled
// text is measured without its escape sequences.
func Block(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		if ansi.StringWidth(l) > width {
			l = ansi.Truncate(l, width, TruncateEllipsis)
		}
		lines[i] = l + strings.Repeat(" ", width-ansi.StringWidth(l))
	}
	return strings.Join(lines, "\n")
}
