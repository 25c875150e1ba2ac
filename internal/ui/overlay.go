package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// overlay splices the popup on top of base at cell position (x, y). Base
// content to the left of the popup is kept (ANSI-aware truncation); the
// remainder of each covered line is dropped, which is fine for a popover
// that gets redrawn every frame.
func overlay(base, popup string, x, y int) string {
	if popup == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	for i, popupLine := range popupLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}

		left := truncate.String(baseLines[row], uint(x))
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		baseLines[row] = left + popupLine
	}

	return strings.Join(baseLines, "\n")
}

// padRight pads or truncates s to exactly width display cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncate.String(s, uint(width))
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// clip truncates s to width cells, marking the cut with an ellipsis.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
