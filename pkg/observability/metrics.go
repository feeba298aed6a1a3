package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the engine
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Session lifecycle metrics
	SessionsOpened    *prometheus.CounterVec
	SessionsCommitted *prometheus.CounterVec
	SessionsCancelled prometheus.Counter
	SessionsFailed    *prometheus.CounterVec

	// Pipeline metrics
	UploadDuration     prometheus.Histogram
	GenerationDuration *prometheus.HistogramVec
	CommitDuration     *prometheus.HistogramVec

	// Graph metrics
	LayoutRuns   prometheus.Counter
	NodesPlaced  prometheus.Counter
	EdgesCreated prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a metrics collector registered on its own registry,
// so multiple collectors in one process never collide.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	sessionsOpened := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total number of review sessions opened",
		},
		[]string{"kind"},
	)

	sessionsCommitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_committed_total",
			Help:      "Total number of review sessions committed",
		},
		[]string{"kind"},
	)

	sessionsCancelled := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_cancelled_total",
			Help:      "Total number of review sessions cancelled before commit",
		},
	)

	sessionsFailed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_failed_total",
			Help:      "Total number of step failures by failed step",
		},
		[]string{"step"},
	)

	uploadDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Source document upload duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Draft generation duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"kind", "status"},
	)

	commitDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Draft commit duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind", "status"},
	)

	layoutRuns := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Total number of auto-layout computations",
		},
	)

	nodesPlaced := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_placed_total",
			Help:      "Total number of nodes created through the placement flow",
		},
	)

	edgesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges created",
		},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		sessionsOpened,
		sessionsCommitted,
		sessionsCancelled,
		sessionsFailed,
		uploadDuration,
		generationDuration,
		commitDuration,
		layoutRuns,
		nodesPlaced,
		edgesCreated,
		cacheHits,
		cacheMisses,
	)

	return &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		SessionsOpened:     sessionsOpened,
		SessionsCommitted:  sessionsCommitted,
		SessionsCancelled:  sessionsCancelled,
		SessionsFailed:     sessionsFailed,
		UploadDuration:     uploadDuration,
		GenerationDuration: generationDuration,
		CommitDuration:     commitDuration,
		LayoutRuns:         layoutRuns,
		NodesPlaced:        nodesPlaced,
		EdgesCreated:       edgesCreated,
		CacheHits:          cacheHits,
		CacheMisses:        cacheMisses,
	}
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
