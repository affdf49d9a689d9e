package movierec

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type tmdbConfig struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	timeout      time.Duration
	ratePerSec   float64
}

type clientConfig struct {
	catalogPath    string
	similarityPath string

	tmdb     *tmdbConfig
	provider MetadataProvider

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	topK           int
	maxConcurrency int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		topK:           5,
		maxConcurrency: 5,
		cacheTTL:       24 * time.Hour,
	}
}

// WithArtifacts sets the catalog (parquet) and similarity matrix paths. Required.
func WithArtifacts(catalogPath, similarityPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = catalogPath
		c.similarityPath = similarityPath
	})
}

// WithTMDB enables metadata enrichment from TMDB with the given API key.
func WithTMDB(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.tmdb == nil {
			c.tmdb = &tmdbConfig{}
		}
		c.tmdb.apiKey = apiKey
	})
}

// WithTMDBEndpoints overrides the TMDB API and image base URLs.
// Empty values keep the defaults.
func WithTMDBEndpoints(baseURL, imageBaseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.tmdb == nil {
			c.tmdb = &tmdbConfig{}
		}
		c.tmdb.baseURL = baseURL
		c.tmdb.imageBaseURL = imageBaseURL
	})
}

// WithTMDBLimits sets the per-lookup timeout and the outbound request rate.
func WithTMDBLimits(timeout time.Duration, ratePerSec float64) Option {
	return optionFunc(func(c *clientConfig) {
		if c.tmdb == nil {
			c.tmdb = &tmdbConfig{}
		}
		c.tmdb.timeout = timeout
		c.tmdb.ratePerSec = ratePerSec
	})
}

// WithMetadataProvider plugs in a custom metadata source. Takes precedence over WithTMDB.
func WithMetadataProvider(p MetadataProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = p
	})
}

// WithCache caches metadata in Redis or Valkey at addr for ttl.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	})
}

// WithTopK sets the default number of recommendations. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithMaxConcurrency bounds parallel metadata lookups per query. Default: 5.
func WithMaxConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrency = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
