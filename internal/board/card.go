package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/layout"
)

// Card is the item a drag carries. A card stamped from the palette has no
// ID until a lane stores it.
type Card struct {
	ID    string
	Title string
	From  string // name of the container it was lifted from
}

// Float is a card drawn above the board while it is dragged.
type Float struct {
	Card  *Card
	frame geom.Rect
	alpha float64
}

func newFloat(c *Card, frame geom.Rect) *Float {
	return &Float{Card: c, frame: frame, alpha: 1}
}

func (f *Float) Frame() geom.Rect { return f.frame }
func (f *Float) SetFrame(r geom.Rect) { f.frame = r }
func (f *Float) SetAlpha(a float64) { f.alpha = a }
func (f *Float) Alpha() float64 { return f.alpha }

var floatStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#1e1e2e")).
	Background(lipgloss.Color("#f9e2af")).
	Bold(true)

// Layer renders the float at its frame for layout.Compose.
func (f *Float) Layer() layout.Layer {
	w := max(f.frame.W, 1)
	text := ansi.Truncate(" "+f.Card.Title, w, "…")
	if pad := w - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return layout.Layer{
		X:       f.frame.X,
		Y:       f.frame.Y,
		Content: floatStyle.Render(text),
		Faint:   f.alpha < 1,
	}
}
