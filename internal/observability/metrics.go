package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels how a drag session ended.
type Outcome string

const (
	OutcomeDropped   Outcome = "dropped"
	OutcomeReturned  Outcome = "returned"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Metrics tracks drag sessions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// DragsStarted counts claimed drags.
	DragsStarted prometheus.Counter

	// DragsFinished counts finished drags.
	// Labels: outcome (dropped|returned|cancelled|failed)
	DragsFinished *prometheus.CounterVec

	// TargetChanges counts hover transitions between droppables.
	TargetChanges prometheus.Counter

	// DragActive is 1 while a session exists.
	DragActive prometheus.Gauge

	// DragDuration measures claim-to-teardown time in seconds.
	DragDuration prometheus.Histogram
}

// NewMetrics registers the drag metrics with reg. Pass a fresh registry in
// tests; prometheus.DefaultRegisterer in the binary.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DragsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "cardshift_drags_started_total",
			Help: "Total number of drags claimed",
		}),
		DragsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardshift_drags_finished_total",
			Help: "Total number of drags finished, by outcome",
		}, []string{"outcome"}),
		TargetChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "cardshift_drag_transitions_total",
			Help: "Total number of drop target changes during drags",
		}),
		DragActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "cardshift_drag_active",
			Help: "Whether a drag session is in progress",
		}),
		DragDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardshift_drag_duration_seconds",
			Help:    "Drag session duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
}

func (m *Metrics) DragStarted() {
	if m == nil {
		return
	}
	m.DragsStarted.Inc()
	m.DragActive.Set(1)
}

func (m *Metrics) DragFinished(outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.DragsFinished.WithLabelValues(string(outcome)).Inc()
	m.DragActive.Set(0)
	m.DragDuration.Observe(d.Seconds())
}

func (m *Metrics) TargetChanged() {
	if m == nil {
		return
	}
	m.TargetChanges.Inc()
}
