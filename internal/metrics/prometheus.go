package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bigocalc"

// Metrics owns a private Prometheus registry, so several instances (one per
// test, say) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal     *prometheus.CounterVec
	candidateFailures *prometheus.CounterVec
	analysisDuration  prometheus.Histogram
	confidence        prometheus.Histogram
	gcDuringAnalysis  prometheus.Counter

	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec

	handler http.Handler
}

// New registers every bigocalc collector plus the Go runtime and process
// collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		analysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by selected complexity class.",
		}, []string{"best_fit"}),
		candidateFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_failures_total",
			Help:      "Analyses aborted by a failing candidate, by measurement phase.",
		}, []string{"phase"}),
		analysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis, benchmarking included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		confidence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confidence",
			Help:      "Confidence score of completed analyses.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		gcDuringAnalysis: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_gc_cycles_total",
			Help:      "GC cycles that ran while an analysis was measuring.",
		}),
		activeRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
	}
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveAnalysis records one successful analysis.
func (m *Metrics) ObserveAnalysis(bestFit string, confidence int, d time.Duration) {
	m.analysesTotal.WithLabelValues(bestFit).Inc()
	m.confidence.Observe(float64(confidence))
	m.analysisDuration.Observe(d.Seconds())
}

// ObserveCandidateFailure records an analysis aborted in the given phase.
func (m *Metrics) ObserveCandidateFailure(phase string) {
	m.candidateFailures.WithLabelValues(phase).Inc()
}

// ObserveGC adds GC cycles seen during an analysis.
func (m *Metrics) ObserveGC(delta MemoryDelta) {
	m.gcDuringAnalysis.Add(float64(delta.GCCycles))
}

// IncrementActiveRequests marks the start of an HTTP request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a served HTTP request.
func (m *Metrics) ObserveRequest(path string, status int) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler { return m.handler }

// WritePrometheus writes the current metrics to w.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
