// Package obsmetrics exposes the guard engine's metrics surface.
//
// The pipeline and applier only ever call the Recorder interface; they
// never reference Prometheus types directly. PrometheusRecorder is the
// default, real implementation, grounded on the teacher's own metrics
// registration shape.
package obsmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes guard-engine outcomes for export to a metrics backend.
// All methods must be safe for concurrent use.
type Recorder interface {
	// IncCommit counts a navigation that was allowed and committed.
	IncCommit(route string)

	// IncBlock counts a navigation blocked by a guard.
	IncBlock(route string)

	// IncRedirect counts a guard-initiated redirect.
	IncRedirect(fromRoute, toRoute string)

	// IncStaleDiscard counts a pipeline result discarded due to a
	// generation mismatch (superseded navigation).
	IncStaleDiscard()

	// ObserveGuardLatency records how long a suspended guard's Eventual
	// took to settle, labelled by phase. Guards that return synchronously
	// are not observed.
	ObserveGuardLatency(phase string, d time.Duration)
}

// PrometheusRecorder implements Recorder with Prometheus collectors
// registered under the "guardengine_" namespace.
type PrometheusRecorder struct {
	commits        *prometheus.CounterVec
	blocks         *prometheus.CounterVec
	redirects      *prometheus.CounterVec
	staleDiscards  prometheus.Counter
	guardLatencies *prometheus.HistogramVec
}

// NewPrometheusRecorder creates and registers the engine's collectors
// against reg. Use prometheus.NewRegistry() for an isolated registry in
// tests, or prometheus.DefaultRegisterer in production. Registration
// failures (e.g. duplicate metric names) panic, matching the teacher's
// fail-fast startup convention.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardengine_commits_total",
		Help: "Total number of navigations allowed and committed, partitioned by route.",
	}, []string{"route"})

	blocks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardengine_blocks_total",
		Help: "Total number of navigations blocked by a guard, partitioned by route.",
	}, []string{"route"})

	redirects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardengine_redirects_total",
		Help: "Total number of guard-initiated redirects, partitioned by source and target route.",
	}, []string{"from_route", "to_route"})

	staleDiscards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardengine_stale_discards_total",
		Help: "Total number of pipeline results discarded due to a generation mismatch.",
	})

	guardLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guardengine_guard_phase_seconds",
		Help:    "Histogram of guard phase resolution latency in seconds, partitioned by phase.",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"phase"})

	reg.MustRegister(commits, blocks, redirects, staleDiscards, guardLatencies)

	return &PrometheusRecorder{
		commits:        commits,
		blocks:         blocks,
		redirects:      redirects,
		staleDiscards:  staleDiscards,
		guardLatencies: guardLatencies,
	}
}

func (m *PrometheusRecorder) IncCommit(route string) {
	m.commits.WithLabelValues(route).Inc()
}

func (m *PrometheusRecorder) IncBlock(route string) {
	m.blocks.WithLabelValues(route).Inc()
}

func (m *PrometheusRecorder) IncRedirect(fromRoute, toRoute string) {
	m.redirects.WithLabelValues(fromRoute, toRoute).Inc()
}

func (m *PrometheusRecorder) IncStaleDiscard() {
	m.staleDiscards.Inc()
}

func (m *PrometheusRecorder) ObserveGuardLatency(phase string, d time.Duration) {
	m.guardLatencies.WithLabelValues(phase).Observe(d.Seconds())
}

// NoopRecorder discards every observation. It is the Recorder used when no
// Option supplies one, so the pipeline never needs a nil check.
type NoopRecorder struct{}

func (NoopRecorder) IncCommit(string)                        {}
func (NoopRecorder) IncBlock(string)                          {}
func (NoopRecorder) IncRedirect(string, string)                {}
func (NoopRecorder) IncStaleDiscard()                          {}
func (NoopRecorder) ObserveGuardLatency(string, time.Duration) {}
