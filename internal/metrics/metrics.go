// Package metrics exposes quick-stack counters and timings to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gravitas-games/stockpile/internal/quickstack"
)

const namespace = "quickstack"

// Recorder implements quickstack.Recorder. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	unitsMoved   prometheus.Counter
	slotsChanged prometheus.Counter
	pairsSkipped *prometheus.CounterVec
	duration     prometheus.Histogram
}

var _ quickstack.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Quick stack runs by outcome",
			},
			[]string{"outcome"},
		),
		unitsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_moved_total",
			Help:      "Item units moved out of player inventories",
		}),
		slotsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_changed_total",
			Help:      "Source slots fully or partially emptied",
		}),
		pairsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pairs_skipped_total",
				Help:      "Groups skipped during a run",
			},
			[]string{"reason"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent in a single quick stack run",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
	}
	r.registry.MustRegister(r.runs, r.unitsMoved, r.slotsChanged, r.pairsSkipped, r.duration)
	return r
}

// RunCompleted records a finished run.
func (r *Recorder) RunCompleted(res *quickstack.Result, elapsed time.Duration) {
	if r == nil || res == nil {
		return
	}
	outcome := "noop"
	if res.AnyItemsMoved() {
		outcome = "moved"
	}
	r.runs.WithLabelValues(outcome).Inc()
	r.unitsMoved.Add(float64(res.UnitsMoved()))
	r.slotsChanged.Add(float64(len(res.ChangedSourceIndexes())))
	r.duration.Observe(elapsed.Seconds())
}

// RunFailed records a run rejected before any work.
func (r *Recorder) RunFailed(error) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues("error").Inc()
}

// RunBusy records a request turned away because another run held the lock.
func (r *Recorder) RunBusy() {
	if r == nil {
		return
	}
	r.runs.WithLabelValues("busy").Inc()
}

// PairSkipped records a group that was skipped mid-run.
func (r *Recorder) PairSkipped(reason string) {
	if r == nil {
		return
	}
	r.pairsSkipped.WithLabelValues(reason).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
