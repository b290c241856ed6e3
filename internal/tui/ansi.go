// ansi.go - ANSI-aware width handling for panel rendering

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FitToWidth ensures a string is exactly the specified visual width.
// If the string is too long, it truncates using ANSI-aware truncation.
// If the string is too short, it pads with spaces.
// Color codes are preserved in both cases.
func FitToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	currentWidth := lipgloss.Width(s)

	if currentWidth > width {
		return ansi.Truncate(s, width, "")
	}
	if currentWidth < width {
		return s + strings.Repeat(" ", width-currentWidth)
	}
	return s
}

// FitCellContent ensures a string fits within the specified width for table cells.
// If the string is too long, it truncates with an ellipsis (…).
// If the string is too short, it pads with spaces.
func FitCellContent(s string, width int) string {
	if width <= 0 {
		return ""
	}

	currentWidth := lipgloss.Width(s)

	if currentWidth > width {
		if width <= 1 {
			return "…"
		}
		return ansi.Truncate(s, width-1, "") + "…"
	}
	if currentWidth < width {
		return s + strings.Repeat(" ", width-currentWidth)
	}
	return s
}

// placeOverlay places the foreground string on top of the background string
// at position (x, y). Characters from fg replace characters in bg.
func placeOverlay(x, y int, fg, bg string) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	for i, fgLine := range fgLines {
		bgY := y + i
		if bgY < 0 || bgY >= len(bgLines) {
			continue
		}

		bgLine := bgLines[bgY]
		bgLineWidth := ansi.StringWidth(bgLine)

		var newLine strings.Builder
		if x > 0 {
			left := ansi.Truncate(bgLine, x, "")
			newLine.WriteString(left)
			if leftWidth := ansi.StringWidth(left); leftWidth < x {
				newLine.WriteString(strings.Repeat(" ", x-leftWidth))
			}
		}

		newLine.WriteString(fgLine)

		rightStart := x + ansi.StringWidth(fgLine)
		if rightStart < bgLineWidth {
			newLine.WriteString(ansi.TruncateLeft(bgLine, rightStart, ""))
		}

		bgLines[bgY] = newLine.String()
	}

	return strings.Join(bgLines, "\n")
}
