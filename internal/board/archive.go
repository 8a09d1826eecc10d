package board

import (
	"fmt"

	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/layout"
)

const (
	archiveName   = "Archive"
	archiveRecent = 20
)

// Archive is a drop-only bin. Cards dropped on it are archived and listed,
// newest first.
type Archive struct {
	board   *Board
	node    *layout.Node
	recent  []string
	hovered bool
}

func (a *Archive) ID() string { return "archive" }
func (a *Archive) Bounds() geom.Rect { return a.node.Bounds() }

// Recent lists archived titles, newest first.
func (a *Archive) Recent() []string { return append([]string(nil), a.recent...) }

func (a *Archive) CanAccept(r geom.Rect) bool {
	return !r.Intersect(a.Bounds()).Empty()
}

func (a *Archive) OnHover(dnd.Item, geom.Rect) { a.hovered = true }
func (a *Archive) OnMove(dnd.Item, geom.Rect) {}
func (a *Archive) OnLeave(dnd.Item) { a.hovered = false }

// OnDrop archives a stored card. A fresh palette stamp has nothing to
// archive and is discarded.
func (a *Archive) OnDrop(item dnd.Item, _ geom.Rect) error {
	a.hovered = false
	c, ok := item.(*Card)
	if !ok {
		return fmt.Errorf("archive: unexpected item %T", item)
	}
	if c.ID == "" {
		return nil
	}
	if err := a.board.store.Cards.Archive(a.board.ctx, c.ID); err != nil {
		return err
	}
	a.board.record(c, archiveName)
	a.recent = append([]string{c.Title}, a.recent...)
	if len(a.recent) > archiveRecent {
		a.recent = a.recent[:archiveRecent]
	}
	return nil
}

func (a *Archive) render() string {
	f := a.node.Frame
	return layout.Pane{Title: archiveName, Rows: a.recent, Target: a.hovered, Muted: !a.hovered}.Render(f.W, f.H)
}
