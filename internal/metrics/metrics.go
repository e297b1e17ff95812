package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for tarmac
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	FlightOperationsTotal *prometheus.CounterVec
	TwinSyncFailuresTotal *prometheus.CounterVec
	FlightEventsTotal     *prometheus.CounterVec
	FlightLogsPersisted   prometheus.Counter
	FlightStreamPending   prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all
// metrics registered on reg. Pass prometheus.DefaultRegisterer in production.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tarmac_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tarmac_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		FlightOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_flight_operations_total",
				Help: "Flight pair operations by operation and result (ok or error kind)",
			},
			[]string{"operation", "result"},
		),
		TwinSyncFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_twin_sync_failures_total",
				Help: "Writes where the target flight committed but its twin could not be synchronized",
			},
			[]string{"operation"},
		),
		FlightEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tarmac_flight_events_total",
				Help: "Flight domain events published by sink and result",
			},
			[]string{"sink", "result"},
		),
		FlightLogsPersisted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tarmac_flight_logs_persisted_total",
				Help: "Flight events persisted to flight_logs by the audit worker",
			},
		),
		FlightStreamPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tarmac_flight_stream_pending",
				Help: "Flight events delivered to the audit workers but not yet acknowledged",
			},
		),
	}
}
