package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "veg_locations"

// Metrics holds the Prometheus counters, histograms, and gauges for the location client.
type Metrics struct {
	// Gateway metrics.
	GatewayRequests    *prometheus.CounterVec // labels: outcome={success,http_error,application_error,transport_error}
	GatewayAPIDuration prometheus.Histogram

	// Service metrics.
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	MockFallbacks    *prometheus.CounterVec // labels: reason={configuration,http,application,transport}
	UsingMockData    prometheus.Gauge
	LocationsFetched prometheus.Gauge

	// Watcher metrics.
	WatcherRunning     prometheus.Gauge
	PollDuration       prometheus.Histogram
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GatewayRequests,
		m.GatewayAPIDuration,
		m.CacheLookups,
		m.MockFallbacks,
		m.UsingMockData,
		m.LocationsFetched,
		m.WatcherRunning,
		m.PollDuration,
		m.SnapshotsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Gateway requests by outcome.",
		}, []string{"outcome"}),
		GatewayAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Gateway request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Location cache lookups by result.",
		}, []string{"result"}),
		MockFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_fallbacks_total",
			Help:      "Fetches answered with mock data, by failure reason.",
		}, []string{"reason"}),
		UsingMockData: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "using_mock_data",
			Help:      "1 when the last fetch fell back to mock data, 0 otherwise.",
		}),
		LocationsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locations_fetched",
			Help:      "Number of locations returned by the last live fetch.",
		}),
		WatcherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watcher_running",
			Help:      "1 when the watcher loop is active, 0 when shut down.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete watcher poll cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Location snapshots published by the watcher.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Snapshot publish failures.",
		}),
	}
}
