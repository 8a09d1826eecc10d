package board

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/cardshift/internal/database/repository"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/layout"
)

// Lane is a column of cards under a one-row header. Row i of the body holds
// cards[i]. It is both a drag source and a drop target; within its own
// bounds a drag reorders the column live.
type Lane struct {
	board *Board
	id    string
	name  string
	wip   int
	node  *layout.Node
	cards []*Card

	claimed *Card   // handed out by ItemAt for the session being opened
	before  []*Card // order when the drag started
	lifted  *Card
	hidden  bool // lifted card is hovering elsewhere
	ghost   *Card
	ghostAt int
	hovered bool
}

func (l *Lane) ID() string { return "lane:" + l.name }
func (l *Lane) Name() string { return l.name }
func (l *Lane) Bounds() geom.Rect { return l.node.Bounds() }

// Titles lists the lane's cards in display order.
func (l *Lane) Titles() []string {
	out := make([]string, 0, len(l.cards))
	for _, c := range l.cards {
		out = append(out, c.Title)
	}
	return out
}

func (l *Lane) load(cards []repository.Card) {
	l.cards = l.cards[:0]
	for _, c := range cards {
		l.cards = append(l.cards, &Card{ID: c.ID, Title: c.Title, From: l.name})
	}
}

func (l *Lane) bodyRows() int { return max(0, l.node.Frame.H-2) }

// cardAt returns the card drawn at local point p.
func (l *Lane) cardAt(p geom.Point) (*Card, int) {
	w := l.node.Frame.W
	if p.X < 1 || p.X >= w-1 {
		return nil, -1
	}
	row := p.Y - 1
	if row < 0 || row >= len(l.cards) || row >= l.bodyRows() {
		return nil, -1
	}
	return l.cards[row], row
}

// slot maps a rect to an insertion index in [0, n] by its vertical centre.
func slot(r geom.Rect, n int) int {
	return max(0, min(r.Center().Y-1, n))
}

func (l *Lane) full() bool {
	return l.wip > 0 && len(l.cards) >= l.wip
}

func (l *Lane) CanStartDragAt(p geom.Point) bool {
	c, _ := l.cardAt(p)
	return c != nil
}

func (l *Lane) RepresentationAt(p geom.Point) dnd.Representation {
	c, row := l.cardAt(p)
	if c == nil {
		return nil
	}
	return newFloat(c, geom.R(2, 1+row, max(1, l.node.Frame.W-4), 1))
}

func (l *Lane) ItemAt(p geom.Point) dnd.Item {
	c, _ := l.cardAt(p)
	if c == nil {
		return nil
	}
	l.claimed = c
	return c
}

// OnDragStart lifts the card that was claimed. The pointer may have drifted
// onto a neighbouring row before the press turned into a drag.
func (l *Lane) OnDragStart(p geom.Point) {
	l.lifted = l.claimed
	if l.lifted == nil {
		l.lifted, _ = l.cardAt(p)
	}
	l.before = append([]*Card(nil), l.cards...)
}

// RemoveItem forgets the card; the target's OnDrop moves the stored row.
func (l *Lane) RemoveItem(item dnd.Item) error {
	c, ok := item.(*Card)
	if !ok {
		return fmt.Errorf("lane %s: unexpected item %T", l.name, item)
	}
	i := indexOf(l.cards, c)
	if i < 0 {
		return fmt.Errorf("lane %s: card %q not found", l.name, c.Title)
	}
	l.cards = append(l.cards[:i], l.cards[i+1:]...)
	return nil
}

func (l *Lane) OnDragCancel() {
	if l.before != nil {
		l.cards = l.before
	}
}

// OnDragStop persists a changed order and clears the drag state.
func (l *Lane) OnDragStop() {
	if l.before != nil && orderChanged(l.before, l.cards) {
		ids := make([]string, len(l.cards))
		for i, c := range l.cards {
			ids[i] = c.ID
		}
		if err := l.board.store.Cards.Reorder(l.board.ctx, l.id, ids); err != nil {
			l.board.fail(fmt.Errorf("reorder %s: %w", l.name, err))
		} else {
			l.board.log.Debug().Str("lane", l.name).Int("cards", len(ids)).Msg("lane reordered")
		}
	}
	l.before = nil
	l.claimed = nil
	l.lifted = nil
	l.hidden = false
	l.hovered = false
}

// CanAccept takes a rect whose vertical centre lies on a body row. A lane
// at its WIP limit only accepts its own card.
func (l *Lane) CanAccept(r geom.Rect) bool {
	cy := r.Center().Y
	if cy < 1 || cy > l.bodyRows() {
		return false
	}
	if l.lifted == nil && l.full() {
		return false
	}
	return true
}

func (l *Lane) OnHover(item dnd.Item, r geom.Rect) {
	c, ok := item.(*Card)
	if !ok {
		return
	}
	l.hovered = true
	if c == l.lifted {
		l.hidden = false
		l.place(c, r)
		return
	}
	l.ghost = c
	l.ghostAt = slot(r, len(l.cards))
}

func (l *Lane) OnMove(item dnd.Item, r geom.Rect) {
	c, ok := item.(*Card)
	if !ok {
		return
	}
	if c == l.lifted {
		l.place(c, r)
		return
	}
	l.ghostAt = slot(r, len(l.cards))
}

func (l *Lane) OnLeave(item dnd.Item) {
	l.hovered = false
	if c, ok := item.(*Card); ok && c == l.lifted {
		l.hidden = true
		return
	}
	l.ghost = nil
}

// OnDrop stores the card in this lane at the ghost row and logs the move.
func (l *Lane) OnDrop(item dnd.Item, r geom.Rect) error {
	l.hovered = false
	l.ghost = nil
	c, ok := item.(*Card)
	if !ok {
		return fmt.Errorf("lane %s: unexpected item %T", l.name, item)
	}
	at := l.ghostAt
	ctx := l.board.ctx
	if c.ID == "" {
		stored, err := l.board.store.Cards.Insert(ctx, repository.Card{LaneID: l.id, Title: c.Title, Position: at})
		if err != nil {
			return err
		}
		c.ID, at = stored.ID, stored.Position
	} else if err := l.board.store.Cards.Move(ctx, c.ID, l.id, at); err != nil {
		return err
	}
	l.board.record(c, l.name)
	c.From = l.name
	at = max(0, min(at, len(l.cards)))
	l.cards = append(l.cards[:at], append([]*Card{c}, l.cards[at:]...)...)
	return nil
}

// place moves the lifted card to the row under r.
func (l *Lane) place(c *Card, r geom.Rect) {
	from := indexOf(l.cards, c)
	if from < 0 {
		return
	}
	to := slot(r, len(l.cards)-1)
	if to == from {
		return
	}
	l.cards = append(l.cards[:from], l.cards[from+1:]...)
	l.cards = append(l.cards[:to], append([]*Card{c}, l.cards[to:]...)...)
}

var (
	liftedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	ghostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
)

func (l *Lane) title() string {
	if l.wip > 0 {
		return fmt.Sprintf("%s %d/%d", l.name, len(l.cards), l.wip)
	}
	return fmt.Sprintf("%s %d", l.name, len(l.cards))
}

func (l *Lane) rows() []string {
	rows := make([]string, 0, len(l.cards)+1)
	for _, c := range l.cards {
		switch {
		case c == l.lifted && l.hidden:
			continue
		case c == l.lifted:
			rows = append(rows, liftedStyle.Render("┄ "+c.Title))
		default:
			rows = append(rows, "• "+c.Title)
		}
	}
	if l.ghost != nil {
		at := max(0, min(l.ghostAt, len(rows)))
		row := ghostStyle.Render("▸ " + l.ghost.Title)
		rows = append(rows[:at], append([]string{row}, rows[at:]...)...)
	}
	return rows
}

func (l *Lane) render() string {
	f := l.node.Frame
	return layout.Pane{Title: l.title(), Rows: l.rows(), Target: l.hovered}.Render(f.W, f.H)
}

func indexOf(cards []*Card, c *Card) int {
	for i, v := range cards {
		if v == c {
			return i
		}
	}
	return -1
}

// orderChanged reports whether the cards still in now appear in a different
// relative order than in before.
func orderChanged(before, now []*Card) bool {
	present := make(map[*Card]bool, len(now))
	for _, c := range now {
		present[c] = true
	}
	i := 0
	for _, c := range before {
		if !present[c] {
			continue
		}
		if i >= len(now) || now[i] != c {
			return true
		}
		i++
	}
	return i != len(now)
}
