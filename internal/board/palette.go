package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/cardshift/internal/database/repository"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/layout"
)

const paletteName = "Palette"

// Palette lists card templates. Dragging one stamps out a new card; the
// template itself stays put, so the palette never accepts drops.
type Palette struct {
	board     *Board
	node      *layout.Node
	templates []repository.Template
	claimed   int
	active    int
}

func (p *Palette) ID() string { return "palette" }
func (p *Palette) Bounds() geom.Rect { return p.node.Bounds() }

func (p *Palette) templateAt(pt geom.Point) (repository.Template, int, bool) {
	if pt.X < 1 || pt.X >= p.node.Frame.W-1 {
		return repository.Template{}, -1, false
	}
	row := pt.Y - 1
	if row < 0 || row >= len(p.templates) || row >= p.node.Frame.H-2 {
		return repository.Template{}, -1, false
	}
	return p.templates[row], row, true
}

func (p *Palette) CanStartDragAt(pt geom.Point) bool {
	_, _, ok := p.templateAt(pt)
	return ok
}

func (p *Palette) RepresentationAt(pt geom.Point) dnd.Representation {
	t, row, ok := p.templateAt(pt)
	if !ok {
		return nil
	}
	return newFloat(&Card{Title: t.Title, From: paletteName}, geom.R(2, 1+row, max(1, p.node.Frame.W-4), 1))
}

func (p *Palette) ItemAt(pt geom.Point) dnd.Item {
	t, row, ok := p.templateAt(pt)
	if !ok {
		return nil
	}
	p.claimed = row
	return &Card{Title: t.Title, From: paletteName}
}

// RemoveItem is a no-op: templates are copied, not moved.
func (p *Palette) RemoveItem(dnd.Item) error { return nil }

func (p *Palette) OnDragStart(geom.Point) { p.active = p.claimed }

func (p *Palette) OnDragStop() { p.active, p.claimed = -1, -1 }

var activeTemplate = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true)

func (p *Palette) render() string {
	rows := make([]string, 0, len(p.templates))
	for i, t := range p.templates {
		if i == p.active {
			rows = append(rows, activeTemplate.Render("» "+t.Title))
			continue
		}
		rows = append(rows, "+ "+t.Title)
	}
	f := p.node.Frame
	return layout.Pane{Title: paletteName, Rows: rows, Muted: true}.Render(f.W, f.H)
}
