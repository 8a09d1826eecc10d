package dnd

import (
	"time"

	"github.com/google/uuid"

	"github.com/jask/cardshift/internal/geom"
)

type state int

const (
	stateIdle state = iota
	// claimed: a press hit an item and the representation is on the
	// overlay, but the press has not been held long enough to drag.
	stateClaimed
	stateDragging
)

func (s state) String() string {
	switch s {
	case stateClaimed:
		return "claimed"
	case stateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// session is replaced as a whole on every transition. The zero value is the
// idle state.
type session struct {
	id      uuid.UUID
	state   state
	offset  geom.Point
	source  *participant
	current *participant
	rep     Representation
	item    Item
	started time.Time
}

func (s session) withState(st state) session {
	s.state = st
	return s
}

func (s session) withCurrent(p *participant) session {
	s.current = p
	return s
}

// dropping reports whether releasing now would hand the item to another
// container.
func (s session) dropping() bool {
	return s.current != nil && s.current != s.source
}

// Snapshot is a read-only view of the active session for status displays.
type Snapshot struct {
	ID       uuid.UUID
	Dragging bool
	Source   string
	Current  string
	Item     Item
	Frame    geom.Rect
}
