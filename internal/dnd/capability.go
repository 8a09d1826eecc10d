package dnd

import "github.com/jask/cardshift/internal/geom"

// Item is the opaque payload being dragged. The coordinator never inspects it.
type Item any

// Representation is the floating stand-in drawn on the overlay while an item
// is in flight.
type Representation interface {
	Frame() geom.Rect
	SetFrame(geom.Rect)
	SetAlpha(float64)
}

// Container is anything that can take part in a drag. Bounds are in the
// container's own coordinate space, normally with a zero origin.
type Container interface {
	ID() string
	Bounds() geom.Rect
}

// Draggable is a container that can originate a drag. Points are in the
// container's local space. RepresentationAt and ItemAt return nil to opt out
// of a particular drag.
type Draggable interface {
	Container
	CanStartDragAt(p geom.Point) bool
	RepresentationAt(p geom.Point) Representation
	ItemAt(p geom.Point) Item
	// RemoveItem is called when item was dropped on another container.
	RemoveItem(item Item) error
}

// DragStarter is an optional Draggable hook, called when the press turns
// into a drag.
type DragStarter interface {
	OnDragStart(p geom.Point)
}

// DragStopper is an optional Draggable hook, called on every exit path.
type DragStopper interface {
	OnDragStop()
}

// DragCanceler is an optional Draggable hook, called before OnDragStop when
// the gesture is cancelled rather than released. Sources that change their
// own state during a drag restore it here.
type DragCanceler interface {
	OnDragCancel()
}

// Droppable is a container that can receive a drag. Rects are the floating
// representation's frame converted into the container's local space.
type Droppable interface {
	Container
	CanAccept(r geom.Rect) bool
	OnHover(item Item, r geom.Rect)
	OnMove(item Item, r geom.Rect)
	OnLeave(item Item)
	OnDrop(item Item, r geom.Rect) error
}

// Overlay is the shared surface the floating representation lives on while a
// drag is in progress. It owns coordinate conversion between the overlay and
// each container, so the coordinator never walks a view hierarchy itself.
type Overlay interface {
	ToOverlay(c Container, r geom.Rect) geom.Rect
	FromOverlay(c Container, r geom.Rect) geom.Rect
	Attach(rep Representation)
	Detach(rep Representation)
}

type participant struct {
	c     Container
	drag  Draggable
	drop  Droppable
	index int
}

func (p *participant) id() string {
	if p == nil {
		return ""
	}
	return p.c.ID()
}

func resolve(c Container, index int) *participant {
	p := &participant{c: c, index: index}
	if d, ok := c.(Draggable); ok {
		p.drag = d
	}
	if d, ok := c.(Droppable); ok {
		p.drop = d
	}
	return p
}
