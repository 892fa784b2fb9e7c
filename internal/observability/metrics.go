package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Page injection outcomes. labels: outcome={injected,duplicate,missing_data,no_anchor,invalid,error}
	Injections *prometheus.CounterVec
	Launches   prometheus.Counter

	// Inline map metrics.
	InlineMaps     *prometheus.CounterVec   // labels: outcome={ready,failed}
	LevelRequests  *prometheus.CounterVec   // labels: level, outcome={success,error}
	LevelDuration  *prometheus.HistogramVec // labels: level
	LevelsLoaded   prometheus.Histogram
	LevelCache     *prometheus.CounterVec // labels: result={hit,miss}
	RelayQueueSize prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	RecordsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Injections,
		m.Launches,
		m.InlineMaps,
		m.LevelRequests,
		m.LevelDuration,
		m.LevelsLoaded,
		m.LevelCache,
		m.RelayQueueSize,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.RecordsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Injections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "injections_total",
			Help:      "Option panel injection attempts by outcome.",
		}, []string{"outcome"}),
		Launches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "launches_total",
			Help:      "External weather site launch URLs generated.",
		}),
		InlineMaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "inline_maps_total",
			Help:      "Inline map loads by outcome.",
		}, []string{"outcome"}),
		LevelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "level_requests_total",
			Help:      "Pressure level data requests by level and outcome.",
		}, []string{"level", "outcome"}),
		LevelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "level_request_duration_seconds",
			Help:      "Pressure level data request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"level"}),
		LevelsLoaded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "levels_loaded",
			Help:      "Number of pressure levels successfully loaded per inline map.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		}),
		LevelCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "level_cache_total",
			Help:      "Pressure level cache lookups by result.",
		}, []string{"result"}),
		RelayQueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windmap",
			Name:      "relay_queue_size",
			Help:      "Messages waiting for the background relay worker.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windmap",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windmap",
			Name:      "geocode_enabled",
			Help:      "1 when location enrichment is enabled, 0 otherwise.",
		}),
		RecordsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windmap",
			Name:      "records_published_total",
			Help:      "Checklist records published to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
