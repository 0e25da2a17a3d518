// Package metrics holds the Prometheus collectors of the sync service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "monitorcrypto"

// Metrics is the collector set. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SyncPassesTotal      *prometheus.CounterVec
	SyncPassDuration     *prometheus.HistogramVec
	SnapshotsInserted    prometheus.Counter
	SeriesPointsInserted prometheus.Counter
	SourceCacheTotal     *prometheus.CounterVec
	SourceFailuresTotal  *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New builds the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SyncPassesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_passes_total",
			Help:      "Sync passes by kind and result",
		}, []string{"kind", "result"}),
		SyncPassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_pass_duration_seconds",
			Help:      "Sync pass duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
		SnapshotsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_inserted_total",
			Help:      "Market snapshots inserted",
		}),
		SeriesPointsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_points_inserted_total",
			Help:      "Historical series points inserted",
		}),
		SourceCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_cache_total",
			Help:      "Source cache lookups by result",
		}, []string{"result"}),
		SourceFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Failed upstream requests by endpoint",
		}, []string{"endpoint"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.SyncPassesTotal,
		m.SyncPassDuration,
		m.SnapshotsInserted,
		m.SeriesPointsInserted,
		m.SourceCacheTotal,
		m.SourceFailuresTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePass records one finished pass of the given kind.
func (m *Metrics) ObservePass(kind string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SyncPassesTotal.WithLabelValues(kind, result).Inc()
	m.SyncPassDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AddSnapshots(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SnapshotsInserted.Add(float64(n))
}

func (m *Metrics) AddSeriesPoints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SeriesPointsInserted.Add(float64(n))
}

// CacheLookup counts a source cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.SourceCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	m.SourceCacheTotal.WithLabelValues("miss").Inc()
}

func (m *Metrics) SourceFailure(endpoint string) {
	if m == nil {
		return
	}
	m.SourceFailuresTotal.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) ObserveHTTP(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
