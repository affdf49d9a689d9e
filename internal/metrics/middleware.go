package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Surfaces group routes by who calls them.
const (
	SurfacePage    = "page"
	SurfaceAPI     = "api"
	SurfaceOps     = "ops"
	SurfaceUnknown = "unknown"
)

// requestBuckets cover catalog-only reads in the low milliseconds up to a
// recommendation page whose TMDB fan-out waits on several upstream timeouts.
var requestBuckets = []float64{0.002, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movierec",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by surface and route",
			Buckets:   requestBuckets,
		},
		[]string{"surface", "method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movierec",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by surface and route",
		},
		[]string{"surface", "method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records HTTP request duration and count, labelled with the
// route pattern and its surface.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.status)

			path := normalizePath(chi.RouteContext(r.Context()).RoutePattern())
			surface := surfaceOf(path)

			httpRequestDuration.WithLabelValues(surface, r.Method, path, status).Observe(duration)
			httpRequestsTotal.WithLabelValues(surface, r.Method, path, status).Inc()
		})
	}
}

// normalizePath normalizes paths to prevent high cardinality in metrics labels.
func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}

// surfaceOf maps a normalized route pattern to its surface label.
func surfaceOf(path string) string {
	switch {
	case path == "/":
		return SurfacePage
	case strings.HasPrefix(path, "/api/"):
		return SurfaceAPI
	case path == "/health" || path == "/metrics":
		return SurfaceOps
	default:
		return SurfaceUnknown
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
