package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/cardshift/internal/database/repository"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/layout"
)

// Options tune a Board.
type Options struct {
	// WIPLimit applies to lanes without their own limit. Zero means none.
	WIPLimit int
	Logger   zerolog.Logger
}

// Board owns the containers and the view tree they are drawn in. Lanes are
// fixed when the board is built; Reload refreshes their contents.
type Board struct {
	ctx   context.Context
	store Store
	log   zerolog.Logger

	Palette *Palette
	Lanes   []*Lane
	Archive *Archive

	root    *layout.Node
	area    *layout.Node
	overlay *layout.Overlay
	errs    []error
}

// New builds the board from the stored lanes and loads its contents.
func New(ctx context.Context, store Store, opts Options) (*Board, error) {
	b := &Board{
		ctx:   ctx,
		store: store,
		log:   opts.Logger.With().Str("component", "board").Logger(),
		root:  layout.NewNode("screen", geom.Rect{}, nil),
	}
	b.area = layout.NewNode("board", geom.Rect{}, b.root)
	b.overlay = layout.NewOverlay(b.root)

	lanes, err := store.Lanes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lanes: %w", err)
	}
	b.Palette = &Palette{board: b, node: layout.NewNode(paletteName, geom.Rect{}, b.area), claimed: -1, active: -1}
	b.overlay.Bind(b.Palette.ID(), b.Palette.node)
	for _, l := range lanes {
		wip := l.WIPLimit
		if wip <= 0 {
			wip = opts.WIPLimit
		}
		lane := &Lane{board: b, id: l.ID, name: l.Name, wip: wip, node: layout.NewNode(l.Name, geom.Rect{}, b.area)}
		b.overlay.Bind(lane.ID(), lane.node)
		b.Lanes = append(b.Lanes, lane)
	}
	b.Archive = &Archive{board: b, node: layout.NewNode(archiveName, geom.Rect{}, b.area)}
	b.overlay.Bind(b.Archive.ID(), b.Archive.node)

	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// Containers lists the board's containers in hit-test order.
func (b *Board) Containers() []dnd.Container {
	out := make([]dnd.Container, 0, len(b.Lanes)+2)
	out = append(out, b.Palette)
	for _, l := range b.Lanes {
		out = append(out, l)
	}
	return append(out, b.Archive)
}

func (b *Board) Overlay() *layout.Overlay { return b.overlay }

// Lane returns the lane with the given name, ignoring case.
func (b *Board) Lane(name string) *Lane {
	for _, l := range b.Lanes {
		if strings.EqualFold(l.name, name) {
			return l
		}
	}
	return nil
}

// Reload reads every container's contents from the store. It must not be
// called while a drag is in progress.
func (b *Board) Reload() error {
	for _, l := range b.Lanes {
		cards, err := b.store.Cards.ListByLane(b.ctx, l.id)
		if err != nil {
			return fmt.Errorf("load lane %s: %w", l.name, err)
		}
		l.load(cards)
	}
	templates, err := b.store.Templates.List(b.ctx)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	b.Palette.templates = templates

	archived, err := b.store.Cards.ListArchived(b.ctx, archiveRecent)
	if err != nil {
		return fmt.Errorf("load archive: %w", err)
	}
	b.Archive.recent = b.Archive.recent[:0]
	for _, c := range archived {
		b.Archive.recent = append(b.Archive.recent, c.Title)
	}
	return nil
}

const (
	sideMin = 12
	sideMax = 22
)

// Layout places the board in area, given in screen cells. The palette and
// archive take a narrow column each side; lanes share the rest.
func (b *Board) Layout(area geom.Rect) {
	b.root.Frame = geom.R(0, 0, area.MaxX(), area.MaxY())
	b.area.Frame = area

	side := max(sideMin, min(area.W/6, sideMax))
	if len(b.Lanes) == 0 {
		side = area.W / 2
	}
	h := area.H
	b.Palette.node.Frame = geom.R(0, 0, side, h)
	b.Archive.node.Frame = geom.R(area.W-side, 0, side, h)

	n := len(b.Lanes)
	if n == 0 {
		return
	}
	inner := max(0, area.W-2*side)
	x := side
	for i, l := range b.Lanes {
		w := inner / n
		if i == n-1 {
			w = inner - (n-1)*(inner/n)
		}
		l.node.Frame = geom.R(x, 0, w, h)
		x += w
	}
}

// Render draws the containers side by side at their laid out sizes.
func (b *Board) Render() string {
	cols := make([]string, 0, len(b.Lanes)+2)
	cols = append(cols, b.Palette.render())
	for _, l := range b.Lanes {
		cols = append(cols, l.render())
	}
	cols = append(cols, b.Archive.render())
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// Floats returns the cards in flight as layers in screen cells.
func (b *Board) Floats() []layout.Layer {
	var out []layout.Layer
	for _, rep := range b.overlay.Floating() {
		if f, ok := rep.(*Float); ok {
			out = append(out, f.Layer())
		}
	}
	return out
}

// Text prints the board as plain text, one lane per block.
func (b *Board) Text() string {
	var sb strings.Builder
	for i, l := range b.Lanes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d)\n", l.name, len(l.cards))
		for _, c := range l.cards {
			fmt.Fprintf(&sb, "  - %s\n", c.Title)
		}
	}
	return sb.String()
}

// TakeErr returns and clears errors raised by callbacks that cannot return
// them, such as a failed reorder in OnDragStop.
func (b *Board) TakeErr() error {
	err := errors.Join(b.errs...)
	b.errs = nil
	return err
}

func (b *Board) fail(err error) {
	b.log.Warn().Err(err).Msg("board update failed")
	b.errs = append(b.errs, err)
}

// record appends a move to the log. A failed write is reported through
// TakeErr, not returned.
func (b *Board) record(c *Card, to string) {
	err := b.store.Moves.Record(b.ctx, repository.Move{CardID: c.ID, Title: c.Title, From: c.From, To: to})
	if err != nil {
		b.fail(fmt.Errorf("record move: %w", err))
		return
	}
	b.log.Info().Str("card", c.Title).Str("from", c.From).Str("to", to).Msg("card moved")
}
