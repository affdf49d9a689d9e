package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metadata provider Prometheus metrics.
var (
	TMDBRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "tmdb_requests_total",
			Help:      "Total number of TMDB API requests",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movierec",
			Name:      "tmdb_request_duration_seconds",
			Help:      "TMDB API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	TMDBErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "tmdb_errors_total",
			Help:      "Total TMDB API errors",
		},
		[]string{"endpoint", "error_type"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "movierec",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	MetadataCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "metadata_cache_total",
			Help:      "Metadata cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	MetadataFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "metadata_fallback_total",
			Help:      "Cards rendered with placeholder metadata",
		},
		[]string{"reason"},
	)
)

var metadataMetricsRegistered bool

// RegisterMetadataMetrics registers metadata provider metrics. Must be called once from main.
func RegisterMetadataMetrics() {
	if metadataMetricsRegistered {
		return
	}
	prometheus.MustRegister(TMDBRequestsTotal)
	prometheus.MustRegister(TMDBRequestDuration)
	prometheus.MustRegister(TMDBErrorsTotal)
	prometheus.MustRegister(BreakerState)
	prometheus.MustRegister(MetadataCacheTotal)
	prometheus.MustRegister(MetadataFallbackTotal)
	metadataMetricsRegistered = true
}
