package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layer is a rendered block painted at (X, Y) on top of a base frame.
// Faint layers are drawn dimmed, which is how the terminal shows an item in
// flight.
type Layer struct {
	X, Y    int
	Content string
	Faint   bool
}

var faintStyle = lipgloss.NewStyle().Faint(true)

// Compose paints layers over base in order. Cells outside width x height are
// clipped.
func Compose(base string, width, height int, layers ...Layer) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := fitCanvas(base, width, height)
	for _, l := range layers {
		content := l.Content
		if l.Faint {
			content = faintLines(content)
		}
		canvas = overlayAt(canvas, content, l.X, l.Y, width, height)
	}
	return canvas
}

func faintLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = faintStyle.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}

func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		line = padRightANSI(line, overlayWidth)
		col := x
		if col < 0 {
			line = dropColumns(line, -col)
			col = 0
		}
		if col >= width {
			continue
		}
		line = ansi.Truncate(line, width-col, "")

		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, col, "")
		if w := ansi.StringWidth(left); w < col {
			left += strings.Repeat(" ", col-w)
		}
		pos := col + ansi.StringWidth(line)
		right := dropColumns(target, pos)
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
