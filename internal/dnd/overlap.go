package dnd

import (
	"fmt"
	"strings"

	"github.com/jask/cardshift/internal/geom"
)

// OverlapMetric decides which droppable owns the floating representation
// when it overlaps more than one.
type OverlapMetric int

const (
	// MetricLegacy admits a candidate when its intersection area beats the
	// running best, then records the best as the intersection width squared.
	// This reproduces long-standing behaviour when droppables overlap.
	MetricLegacy OverlapMetric = iota
	// MetricWidth picks the largest intersection width.
	MetricWidth
	// MetricArea picks the largest intersection area.
	MetricArea
)

func (m OverlapMetric) String() string {
	switch m {
	case MetricLegacy:
		return "legacy"
	case MetricWidth:
		return "width"
	case MetricArea:
		return "area"
	default:
		return fmt.Sprintf("OverlapMetric(%d)", int(m))
	}
}

// ParseOverlapMetric accepts the names produced by String.
func ParseOverlapMetric(s string) (OverlapMetric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return MetricLegacy, nil
	case "width":
		return MetricWidth, nil
	case "area":
		return MetricArea, nil
	}
	return 0, fmt.Errorf("unknown overlap metric %q", s)
}

// admit reports whether inter beats best and returns the score to carry.
// Ties keep the earlier candidate.
func (m OverlapMetric) admit(inter geom.Rect, best int) (bool, int) {
	if inter.Empty() {
		return false, best
	}
	switch m {
	case MetricWidth:
		if inter.W > best {
			return true, inter.W
		}
	case MetricArea:
		if a := inter.Area(); a > best {
			return true, a
		}
	default:
		if inter.Area() > best {
			return true, inter.W * inter.W
		}
	}
	return false, best
}

// candidate returns the droppable that owns frame, or nil when frame touches
// none of them. frame is in overlay space.
func (c *Coordinator) candidate(frame geom.Rect) *participant {
	var (
		best  *participant
		score int
	)
	for _, p := range c.droppables {
		bounds := c.overlay.ToOverlay(p.c, p.c.Bounds())
		ok, next := c.metric.admit(frame.Intersect(bounds), score)
		if ok {
			best, score = p, next
		}
	}
	return best
}
