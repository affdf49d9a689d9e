package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	"github.com/kailas-cloud/movierec/internal/domain"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	"github.com/kailas-cloud/movierec/internal/repository/artifact"
	"github.com/kailas-cloud/movierec/internal/repository/metacache"
	chiTransport "github.com/kailas-cloud/movierec/internal/transport/chi"
	"github.com/kailas-cloud/movierec/internal/transport/tmdb"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting movierec server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterMetadataMetrics()
	metrics.RegisterRecommendMetrics()

	ctx := context.Background()

	// Artifacts are loaded once up front; nothing can be served without them.
	catalogMemo := artifact.NewMemo(
		artifact.NewLoader(cfg.Artifacts.CatalogPath, cfg.Artifacts.SimilarityPath, logger),
	)
	full, err := catalogMemo.Get(ctx)
	if err != nil {
		logger.Fatal(artifactHint(err),
			zap.String("catalog_path", cfg.Artifacts.CatalogPath),
			zap.String("similarity_path", cfg.Artifacts.SimilarityPath),
			zap.Error(err),
		)
	}
	metrics.CatalogMovies.Set(float64(full.Len()))

	// Optional metadata cache
	var store *dbRedis.Store
	if cfg.Cache.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to metadata cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Metadata chain: TMDB -> circuit breaker -> cache
	client := tmdb.NewClient(&tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
		Timeout:      time.Duration(cfg.TMDB.TimeoutSec) * time.Second,
		RatePerSec:   cfg.TMDB.RatePerSec,
		Burst:        cfg.TMDB.Burst,
		Logger:       logger,
	})
	breaker := tmdb.NewBreakerProvider(client, tmdb.DefaultBreakerConfig(), logger)

	var provider domain.MetadataProvider = breaker
	// Pass nil interfaces (not typed nil pointers) when the cache is disabled.
	var forgetter chiTransport.MetadataForgetter
	var cachePinger healthuc.CachePinger
	if store != nil {
		cached := metacache.New(breaker, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.MetadataCacheTotal, logger)
		provider = cached
		forgetter = cached
		cachePinger = store
	}

	// Use case services
	catalogSvc := cataloguc.New(catalogMemo)
	recommendSvc := recommenduc.New(catalogSvc, provider, cfg.Recommend.TopK, cfg.TMDB.MaxConcurrency, logger)
	healthSvc := healthuc.New(catalogMemo, cachePinger, breaker)

	server := chiTransport.NewServer(catalogSvc, recommendSvc, healthSvc, forgetter, cfg.Recommend.MaxK, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r, apiMiddlewares(cfg)...)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.Int("movies", full.Len()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// artifactHint turns a load failure into an operator-facing message.
func artifactHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrArtifactMissing):
		return "Artifact file not found: set artifacts.catalog_path and artifacts.similarity_path " +
			"(CATALOG_PATH / SIMILARITY_PATH) to the precomputed movie list and similarity matrix"
	case errors.Is(err, domain.ErrArtifactCorrupt):
		return "Artifact files are unreadable or do not belong together: regenerate the movie list " +
			"and similarity matrix from the same run"
	default:
		return "Failed to load artifacts"
	}
}

// apiMiddlewares builds the chain applied to /api/v1 only: CORS, per-IP rate limit, bearer auth.
func apiMiddlewares(cfg config.Config) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
	}

	if cfg.RateLimit.Requests > 0 {
		mws = append(mws, httprate.Limit(
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSec)*time.Second,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeJSONError(w, http.StatusTooManyRequests, string(chiTransport.ErrorCodeRateLimited), "rate limit exceeded")
			}),
		))
	}

	return append(mws, chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, string(chiTransport.ErrorCodeInternal), "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
