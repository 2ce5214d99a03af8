package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gtmd/internal/services"
	"gtmd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(namespace string)
	IncCacheMisses(namespace string)
	ObservePersistenceDuration(duration time.Duration)
	ObserveRefreshDuration(duration time.Duration)
	AddEventsWritten(n int)
	AddNotesSkipped(n int)
	SetCommitsTotal(project string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	refreshDuration     prometheus.Histogram
	eventsWritten       prometheus.Counter
	notesSkipped        prometheus.Counter
	commitsTotal        *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(namespace string) {
	m.cacheHits.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) IncCacheMisses(namespace string) {
	m.cacheMisses.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddEventsWritten(n int) {
	if n > 0 {
		m.eventsWritten.Add(float64(n))
	}
}

func (m *MetricsProvider) AddNotesSkipped(n int) {
	if n > 0 {
		m.notesSkipped.Add(float64(n))
	}
}

func (m *MetricsProvider) SetCommitsTotal(project string, count int) {
	m.commitsTotal.WithLabelValues(project).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, service services.TimeServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gtmd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gtmd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gtmd_cache_hits_total",
			Help: "Total number of response cache hits per key namespace",
		}, []string{"namespace"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gtmd_cache_misses_total",
			Help: "Total number of response cache misses per key namespace",
		}, []string{"namespace"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gtmd_persistence_duration_seconds",
			Help:    "Duration of snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gtmd_refresh_duration_seconds",
			Help:    "Duration of a notes refresh over all projects in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		eventsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gtmd_events_written_total",
			Help: "Total number of file events written to event directories",
		}),

		notesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gtmd_notes_skipped_total",
			Help: "Total number of notes that failed to decode",
		}),

		commitsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gtmd_commits_total",
			Help: "Number of annotated commits per project",
		}, []string{"project"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "gtmd_buffer_size",
		Help: "Current number of events in the active buffer",
	}, func() float64 {
		return float64(service.GetBufferSize())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "gtmd_projects_total",
		Help: "Total number of registered projects",
	}, func() float64 {
		return float64(len(service.GetProjects()))
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration)           {}
func (n *noopMetrics) AddEventsWritten(_ int)                           {}
func (n *noopMetrics) AddNotesSkipped(_ int)                            {}
func (n *noopMetrics) SetCommitsTotal(_ string, _ int)                  {}
