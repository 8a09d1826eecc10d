package dnd

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/cardshift/internal/observability"
)

const (
	// DefaultMinPress is how long a press must be held before it becomes a
	// drag. Shorter presses are taps.
	DefaultMinPress = 300 * time.Millisecond
	// DefaultAlpha is the translucency given to an item in flight.
	DefaultAlpha = 0.7
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMinPress sets the hold time reported by MinPress. Negative values are ignored.
func WithMinPress(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.minPress = d
		}
	}
}

// WithAlpha sets the translucency of the floating representation, in (0, 1].
func WithAlpha(a float64) Option {
	return func(c *Coordinator) {
		if a > 0 && a <= 1 {
			c.alpha = a
		}
	}
}

// WithOverlapMetric picks how overlapping droppables are ranked. The default
// is MetricLegacy.
func WithOverlapMetric(m OverlapMetric) Option {
	return func(c *Coordinator) { c.metric = m }
}

// WithLogger logs session transitions at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log.With().Str("component", "dnd").Logger() }
}

// WithMetrics records drag outcomes. A nil Metrics records nothing.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}
