package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "title_not_found" / "no_matches"
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "movierec",
			Name:      "recommendation_duration_seconds",
			Help:      "Time to rank and enrich one recommendation request",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
	)

	CatalogMovies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "movierec",
			Name:      "catalog_movies",
			Help:      "Number of movies in the loaded catalog",
		},
	)
)

var recommendMetricsRegistered bool

// RegisterRecommendMetrics registers recommendation metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recommendMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(CatalogMovies)
	recommendMetricsRegistered = true
}
