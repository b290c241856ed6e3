package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/juanibiapina/vlist/internal/list"
)

// Cell kinds of the viewport drawing
const (
	cellEmpty = iota
	cellItem
	cellPending
	cellPinned
	cellCursor
)

// axes splits a frame into main and cross axis position and size
func axes(f list.Rect, vertical bool) (mainPos, mainSize, crossPos, crossSize float64) {
	if vertical {
		return f.Y, f.Height, f.X, f.Width
	}
	return f.X, f.Width, f.Y, f.Height
}

// renderViewport draws the attached items that intersect the viewport. The
// main axis runs down the panel whatever the list orientation; one text row
// stands for ViewportSize/rows units.
func renderViewport(snap list.Snapshot, cursor, width, rows int) string {
	if width <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	kinds := make([][]int, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
		kinds[r] = make([]int, width)
	}

	vertical := snap.Orientation != list.OrientationHorizontal.String()
	scale := snap.ViewportSize / float64(rows)
	if scale <= 0 {
		scale = 1
	}

	var attached []list.ItemSnapshot
	cross := 0.0
	for _, it := range snap.Items {
		if !it.Attached {
			continue
		}
		attached = append(attached, it)
		_, _, cp, cs := axes(it.Frame, vertical)
		cross = math.Max(cross, cp+cs)
	}
	if cross <= 0 {
		cross = 1
	}
	crossScale := float64(width) / cross

	// pinned items cover what scrolls beneath them
	sort.SliceStable(attached, func(i, j int) bool {
		return !attached[i].Pinned && attached[j].Pinned
	})

	for _, it := range attached {
		mp, ms, cp, cs := axes(it.Frame, vertical)
		// rounding both edges keeps neighbours from sharing a row
		r0 := int(math.Round((mp - snap.ContentOffset) / scale))
		r1 := int(math.Round((mp+ms-snap.ContentOffset)/scale)) - 1
		if r1 < 0 || r0 >= rows || r1 < r0 {
			continue
		}
		c0 := max(int(math.Round(cp*crossScale)), 0)
		c1 := min(int(math.Round((cp+cs)*crossScale))-1, width-1)
		if c1-c0 < 2 {
			continue
		}

		kind := cellItem
		switch {
		case it.Index == cursor:
			kind = cellCursor
		case it.Pinned:
			kind = cellPinned
		case it.ElementID < 0:
			kind = cellPending
		}
		drawBox(grid, kinds, r0, r1, c0, c1, it.Key, kind)
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = renderCells(grid[r], kinds[r])
	}
	return strings.Join(lines, "\n")
}

// drawBox outlines an item spanning rows r0..r1 and columns c0..c1, with
// its key on the first visible row. Rows outside the grid are clipped.
func drawBox(grid [][]rune, kinds [][]int, r0, r1, c0, c1 int, label string, kind int) {
	rows := len(grid)
	for r := max(r0, 0); r <= min(r1, rows-1); r++ {
		left, fill, right := '│', ' ', '│'
		switch {
		case r == r0 && r == r1:
			left, fill, right = '[', ' ', ']'
		case r == r0:
			left, fill, right = '┌', '─', '┐'
		case r == r1:
			left, fill, right = '└', '─', '┘'
		}
		for c := c0; c <= c1; c++ {
			ch := fill
			switch c {
			case c0:
				ch = left
			case c1:
				ch = right
			}
			grid[r][c] = ch
			kinds[r][c] = kind
		}
	}

	row := max(r0, 0)
	for i, ch := range []rune(label) {
		c := c0 + 1 + i
		if c >= c1 {
			break
		}
		grid[row][c] = ch
	}
}

// renderCells styles runs of cells of the same kind
func renderCells(cells []rune, kinds []int) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(cells); i++ {
		if i < len(cells) && kinds[i] == kinds[start] {
			continue
		}
		b.WriteString(cellStyles[kinds[start]].Render(string(cells[start:i])))
		start = i
	}
	return b.String()
}

// formatItemLine renders one row of the item list
func formatItemLine(it list.ItemSnapshot, selected bool, width int) string {
	marker := " "
	switch {
	case it.Pinned:
		marker = "▪"
	case it.OnScreen:
		marker = "◉"
	case it.Attached:
		marker = "○"
	}

	line := fmt.Sprintf("%s %4d %-8s c%d %7.0f %5.0f %s",
		marker, it.Index, it.Key, it.ColIndex, it.Frame.Y, it.Frame.Height, it.Status)
	if it.Sticky {
		line += " sticky"
	}
	if it.FullSpan {
		line += " full"
	}
	line = FitCellContent(line, width)

	var style lipgloss.Style
	switch {
	case selected:
		style = itemSelectedStyle
	case it.OnScreen:
		style = itemOnScreenStyle
	case it.Attached:
		style = itemAttachedStyle
	default:
		style = mutedStyle
	}
	return style.Render(line)
}
