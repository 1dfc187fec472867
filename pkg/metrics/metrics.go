// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	observability.SetEngineHooks(m)
//	observability.SetLayoutHooks(m)
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/stackfold/pkg/observability"
)

// Metrics holds the stackfold collectors. It implements
// observability.EngineHooks and observability.LayoutHooks.
type Metrics struct {
	Collapses       prometheus.Counter
	Expands         prometheus.Counter
	HiddenNodes     prometheus.Histogram
	ProjectionEdges prometheus.Histogram
	LayoutRuns      *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	LayoutNodes     prometheus.Histogram
	OverlapRuns     *prometheus.CounterVec
	OverlapPasses   prometheus.Histogram
	LayoutsInFlight prometheus.Gauge
}

var (
	_ observability.EngineHooks = (*Metrics)(nil)
	_ observability.LayoutHooks = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Collapses: f.NewCounter(prometheus.CounterOpts{
			Name: "stackfold_collapses_total",
			Help: "Total number of successful collapse operations",
		}),
		Expands: f.NewCounter(prometheus.CounterOpts{
			Name: "stackfold_expands_total",
			Help: "Total number of successful expand operations",
		}),
		HiddenNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackfold_collapse_hidden_nodes",
			Help:    "Number of nodes hidden by one collapse",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ProjectionEdges: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackfold_collapse_projection_edges",
			Help:    "Number of projection edges created by one collapse",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		LayoutRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stackfold_layout_runs_total",
			Help: "Total number of delegated layout runs",
		}, []string{"algorithm", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackfold_layout_duration_seconds",
			Help:    "Duration of delegated layout runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"algorithm"}),
		LayoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackfold_layout_nodes",
			Help:    "Number of nodes handed to a layout run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		OverlapRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stackfold_overlap_resolutions_total",
			Help: "Total number of overlap resolution runs by outcome",
		}, []string{"resolved"}),
		OverlapPasses: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackfold_overlap_passes",
			Help:    "Separation passes used by one overlap resolution",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		}),
		LayoutsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "stackfold_layouts_in_flight",
			Help: "Number of layout runs waiting for their capability",
		}),
	}
}

// OnCollapse implements observability.EngineHooks.
func (m *Metrics) OnCollapse(_ string, hidden, projections int) {
	m.Collapses.Inc()
	m.HiddenNodes.Observe(float64(hidden))
	m.ProjectionEdges.Observe(float64(projections))
}

// OnExpand implements observability.EngineHooks.
func (m *Metrics) OnExpand(string, int) {
	m.Expands.Inc()
}

// OnLayoutStart implements observability.LayoutHooks.
func (m *Metrics) OnLayoutStart(_ context.Context, _ string, nodeCount int) {
	m.LayoutsInFlight.Inc()
	m.LayoutNodes.Observe(float64(nodeCount))
}

// OnLayoutComplete implements observability.LayoutHooks.
func (m *Metrics) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	m.LayoutsInFlight.Dec()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LayoutRuns.WithLabelValues(algorithm, status).Inc()
	m.LayoutDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// OnOverlapResolve implements observability.LayoutHooks.
func (m *Metrics) OnOverlapResolve(passes int, resolved bool) {
	label := "false"
	if resolved {
		label = "true"
	}
	m.OverlapRuns.WithLabelValues(label).Inc()
	m.OverlapPasses.Observe(float64(passes))
}

// Register installs m as the global engine and layout hooks.
func (m *Metrics) Register() {
	observability.SetEngineHooks(m)
	observability.SetLayoutHooks(m)
}

// WriteFile writes every metric gathered by g to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
