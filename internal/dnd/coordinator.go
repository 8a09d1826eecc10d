package dnd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/observability"
)

var ErrNilOverlay = errors.New("dnd: overlay is nil")

// Phase is the stage of the gesture carried by a Signal.
type Phase int

const (
	Began Phase = iota + 1
	Changed
	Ended
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Signal is one gesture update. Point is in overlay coordinates.
type Signal struct {
	Phase Phase
	Point geom.Point
}

// Coordinator runs the drag state machine over a fixed set of containers.
type Coordinator struct {
	overlay    Overlay
	draggables []*participant
	droppables []*participant

	minPress time.Duration
	alpha    float64
	metric   OverlapMetric
	log      zerolog.Logger
	metrics  *observability.Metrics
	now      func() time.Time

	sess session
}

// New resolves each container's capabilities once, in order. Containers that
// are neither draggable nor droppable are ignored.
func New(overlay Overlay, containers []Container, opts ...Option) (*Coordinator, error) {
	if overlay == nil {
		return nil, ErrNilOverlay
	}
	c := &Coordinator{
		overlay:  overlay,
		minPress: DefaultMinPress,
		alpha:    DefaultAlpha,
		metric:   MetricLegacy,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i, ct := range containers {
		if ct == nil {
			continue
		}
		p := resolve(ct, i)
		if p.drag == nil && p.drop == nil {
			c.log.Warn().Str("container", ct.ID()).Msg("container is neither draggable nor droppable")
			continue
		}
		if p.drag != nil {
			c.draggables = append(c.draggables, p)
		}
		if p.drop != nil {
			c.droppables = append(c.droppables, p)
		}
	}
	if len(c.draggables) == 0 {
		c.log.Warn().Msg("no draggable containers registered")
	}
	return c, nil
}

// MinPress is the hold time the gesture layer must wait before sending Began.
func (c *Coordinator) MinPress() time.Duration { return c.minPress }

// Active reports whether a session exists, claimed or dragging.
func (c *Coordinator) Active() bool { return c.sess.state != stateIdle }

// Snapshot describes the active session. ok is false when idle.
func (c *Coordinator) Snapshot() (snap Snapshot, ok bool) {
	s := c.sess
	if s.state == stateIdle {
		return Snapshot{}, false
	}
	return Snapshot{
		ID:       s.id,
		Dragging: s.state == stateDragging,
		Source:   s.source.id(),
		Current:  s.current.id(),
		Item:     s.item,
		Frame:    s.rep.Frame(),
	}, true
}

// Claim hit-tests a press at p and, on a match, opens a session. It returns
// false when nothing under p can be dragged or a session is already open;
// the host must then leave the press alone.
func (c *Coordinator) Claim(p geom.Point) bool {
	if c.sess.state != stateIdle {
		c.log.Debug().Stringer("session", c.sess.id).Msg("claim rejected: drag in progress")
		return false
	}
	for _, src := range c.draggables {
		local := c.pointIn(src.c, p)
		if !src.drag.CanStartDragAt(local) {
			continue
		}
		rep := src.drag.RepresentationAt(local)
		if rep == nil {
			continue
		}
		item := src.drag.ItemAt(local)
		if item == nil {
			continue
		}
		c.open(src, rep, item, p)
		return true
	}
	return false
}

func (c *Coordinator) open(src *participant, rep Representation, item Item, p geom.Point) {
	frame := c.overlay.ToOverlay(src.c, rep.Frame())
	rep.SetFrame(frame)
	rep.SetAlpha(c.alpha)
	c.overlay.Attach(rep)

	var current *participant
	if src.drop != nil {
		current = src
	}
	c.sess = session{
		id:      uuid.New(),
		state:   stateClaimed,
		offset:  p.Sub(frame.Origin()),
		source:  src,
		current: current,
		rep:     rep,
		item:    item,
		started: c.now(),
	}
	c.metrics.DragStarted()
	c.log.Debug().
		Stringer("session", c.sess.id).
		Str("source", src.id()).
		Stringer("point", p).
		Stringer("frame", frame).
		Msg("drag claimed")
}

// Handle advances the session. Signals that arrive while idle are ignored.
// A non-nil error means a container refused the drop; the session has still
// been torn down.
func (c *Coordinator) Handle(sig Signal) error {
	if c.sess.state == stateIdle {
		return nil
	}
	switch sig.Phase {
	case Began:
		c.begin(sig.Point)
	case Changed:
		if c.sess.state != stateDragging {
			return nil
		}
		c.move(sig.Point)
	case Ended:
		if c.sess.state != stateDragging {
			c.cancel()
			return nil
		}
		return c.end()
	case Cancelled:
		c.cancel()
	default:
		return fmt.Errorf("dnd: unknown phase %d", int(sig.Phase))
	}
	return nil
}

func (c *Coordinator) begin(p geom.Point) {
	if c.sess.state != stateClaimed {
		return
	}
	c.sess = c.sess.withState(stateDragging)
	if starter, ok := c.sess.source.drag.(DragStarter); ok {
		starter.OnDragStart(c.pointIn(c.sess.source.c, p))
	}
	c.log.Debug().Stringer("session", c.sess.id).Msg("drag began")
}

func (c *Coordinator) move(p geom.Point) {
	s := c.sess
	frame := s.rep.Frame().WithOrigin(p.Sub(s.offset))
	s.rep.SetFrame(frame)

	target := c.candidate(frame)
	if target == nil {
		return
	}
	local := c.overlay.FromOverlay(target.c, frame)
	if !target.drop.CanAccept(local) {
		return
	}
	if target != s.current {
		if s.current != nil {
			s.current.drop.OnLeave(s.item)
		}
		target.drop.OnHover(s.item, local)
		c.log.Debug().
			Stringer("session", s.id).
			Str("from", s.current.id()).
			Str("to", target.id()).
			Msg("drag target changed")
		s = s.withCurrent(target)
		c.sess = s
		c.metrics.TargetChanged()
	}
	target.drop.OnMove(s.item, local)
}

func (c *Coordinator) end() error {
	s := c.sess
	outcome := observability.OutcomeReturned
	defer func() { c.teardown(outcome) }()

	if !s.dropping() {
		return nil
	}
	if err := s.source.drag.RemoveItem(s.item); err != nil {
		s.current.drop.OnLeave(s.item)
		outcome = observability.OutcomeFailed
		c.log.Warn().Err(err).Str("source", s.source.id()).Msg("remove item failed")
		return fmt.Errorf("dnd: remove item from %s: %w", s.source.id(), err)
	}
	rect := c.overlay.FromOverlay(s.current.c, s.rep.Frame())
	if err := s.current.drop.OnDrop(s.item, rect); err != nil {
		outcome = observability.OutcomeFailed
		c.log.Warn().Err(err).Str("target", s.current.id()).Msg("drop failed")
		return fmt.Errorf("dnd: drop onto %s: %w", s.current.id(), err)
	}
	outcome = observability.OutcomeDropped
	c.log.Debug().
		Stringer("session", s.id).
		Str("source", s.source.id()).
		Str("target", s.current.id()).
		Stringer("rect", rect).
		Msg("item dropped")
	return nil
}

// cancel tears the session down without moving data. A target other than the
// source is told to let go of any hover state first.
func (c *Coordinator) cancel() {
	s := c.sess
	if s.dropping() {
		s.current.drop.OnLeave(s.item)
	}
	if canceler, ok := s.source.drag.(DragCanceler); ok {
		canceler.OnDragCancel()
	}
	c.teardown(observability.OutcomeCancelled)
}

func (c *Coordinator) teardown(outcome observability.Outcome) {
	s := c.sess
	c.sess = session{}

	c.overlay.Detach(s.rep)
	if stopper, ok := s.source.drag.(DragStopper); ok {
		stopper.OnDragStop()
	}
	elapsed := c.now().Sub(s.started)
	c.metrics.DragFinished(outcome, elapsed)
	c.log.Debug().
		Stringer("session", s.id).
		Str("outcome", string(outcome)).
		Dur("elapsed", elapsed).
		Msg("drag finished")
}

func (c *Coordinator) pointIn(ct Container, p geom.Point) geom.Point {
	return c.overlay.FromOverlay(ct, geom.Rect{X: p.X, Y: p.Y}).Origin()
}
