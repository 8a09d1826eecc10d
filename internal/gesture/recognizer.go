// Package gesture turns raw pointer events into drag signals. A drag starts
// only after the pointer has been held nearly still for the minimum press
// duration; anything shorter is a tap and is handed back.
package gesture

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
)

// Target receives recognized drags. *dnd.Coordinator implements it.
type Target interface {
	Claim(p geom.Point) bool
	Handle(sig dnd.Signal) error
}

type state int

const (
	idle state = iota
	pressed
	dragging
)

// Options configure a Recognizer.
type Options struct {
	MinPress time.Duration
	// AllowableMovement is how many cells the pointer may stray, in either
	// axis, before a held press stops counting as one.
	AllowableMovement int
	Logger            zerolog.Logger
}

// Recognizer is a long-press drag recognizer. It does no timing of its own:
// Press returns a generation, and the host calls Elapse with it once
// MinPress has passed.
type Recognizer struct {
	target Target
	opts   Options
	log    zerolog.Logger

	state  state
	origin geom.Point
	last   geom.Point
	gen    int
}

func New(target Target, opts Options) *Recognizer {
	opts.MinPress = max(opts.MinPress, 0)
	opts.AllowableMovement = max(opts.AllowableMovement, 0)
	return &Recognizer{
		target: target,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "gesture").Logger(),
	}
}

func (r *Recognizer) MinPress() time.Duration { return r.opts.MinPress }

// Pending reports a press that is still waiting for its timer.
func (r *Recognizer) Pending() bool { return r.state == pressed }

func (r *Recognizer) Dragging() bool { return r.state == dragging }

// Press starts watching a press at p. ok is false when nothing there can be
// dragged or a press is already being tracked; otherwise the host must call
// Elapse(gen) after MinPress.
func (r *Recognizer) Press(p geom.Point) (gen int, ok bool) {
	if r.state != idle {
		return 0, false
	}
	if !r.target.Claim(p) {
		return 0, false
	}
	r.gen++
	r.state = pressed
	r.origin, r.last = p, p
	r.log.Debug().Int("gen", r.gen).Stringer("point", p).Msg("press armed")
	return r.gen, true
}

// Elapse fires the press timer. A timer from an earlier press is ignored.
func (r *Recognizer) Elapse(gen int) error {
	if r.state != pressed || gen != r.gen {
		return nil
	}
	r.state = dragging
	return r.target.Handle(dnd.Signal{Phase: dnd.Began, Point: r.last})
}

// Motion follows the pointer. Before the timer fires, straying further than
// AllowableMovement abandons the press.
func (r *Recognizer) Motion(p geom.Point) error {
	switch r.state {
	case pressed:
		d := p.Sub(r.origin)
		if max(abs(d.X), abs(d.Y)) > r.opts.AllowableMovement {
			r.log.Debug().Stringer("point", p).Msg("press abandoned: moved")
			return r.cancel()
		}
		r.last = p
	case dragging:
		if p == r.last {
			return nil
		}
		r.last = p
		return r.target.Handle(dnd.Signal{Phase: dnd.Changed, Point: p})
	}
	return nil
}

// Release ends the gesture. Releasing before the timer is a tap, not a drop.
func (r *Recognizer) Release(p geom.Point) error {
	switch r.state {
	case pressed:
		return r.cancel()
	case dragging:
		r.state = idle
		return r.target.Handle(dnd.Signal{Phase: dnd.Ended, Point: p})
	}
	return nil
}

// Cancel abandons any press or drag in progress.
func (r *Recognizer) Cancel() error {
	if r.state == idle {
		return nil
	}
	return r.cancel()
}

func (r *Recognizer) cancel() error {
	r.state = idle
	return r.target.Handle(dnd.Signal{Phase: dnd.Cancelled, Point: r.last})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
