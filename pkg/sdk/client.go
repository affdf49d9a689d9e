package movierec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/metrics"
	"github.com/kailas-cloud/movierec/internal/repository/artifact"
	"github.com/kailas-cloud/movierec/internal/repository/metacache"
	"github.com/kailas-cloud/movierec/internal/transport/tmdb"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type catalogUseCase interface {
	Filter(ctx context.Context, f domcat.Filter) (domcat.Catalog, error)
	Facets(ctx context.Context) (cataloguc.Facets, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, title string, f domcat.Filter, k int) (recommenduc.Result, error)
}

// Client is the movierec SDK entry point.
type Client struct {
	store        *dbRedis.Store
	catalogSvc   catalogUseCase
	recommendSvc recommendUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New loads the artifacts and wires the metadata chain.
// The provided context bounds artifact loading and the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.catalogPath == "" || cfg.similarityPath == "" {
		return nil, errors.New("movierec: artifact paths required (use WithArtifacts)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	memo := artifact.NewMemo(artifact.NewLoader(cfg.catalogPath, cfg.similarityPath, zap.NewNop()))
	if _, err := memo.Get(ctx); err != nil {
		return nil, fmt.Errorf("movierec: load artifacts: %w", err)
	}

	provider, breaker := buildProvider(cfg)

	var store *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 && provider != nil {
		store, err = createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		provider = metacache.New(provider, store, cfg.cacheTTL, metrics.MetadataCacheTotal, zap.NewNop())
	}

	// Nil interfaces, not typed nil pointers, for the optional health checks.
	var cache healthuc.CachePinger
	if store != nil {
		cache = store
	}
	var breakerState healthuc.BreakerState
	if breaker != nil {
		breakerState = breaker
	}

	catalogSvc := cataloguc.New(memo)
	c := &Client{
		store:        store,
		catalogSvc:   catalogSvc,
		recommendSvc: recommenduc.New(catalogSvc, provider, cfg.topK, cfg.maxConcurrency, zap.NewNop()),
		healthSvc:    healthuc.New(memo, cache, breakerState),
		obs:          obs,
	}
	return c, nil
}

// buildProvider returns the configured metadata source, or nil for placeholder-only cards.
func buildProvider(cfg *clientConfig) (domain.MetadataProvider, *tmdb.BreakerProvider) {
	if cfg.provider != nil {
		return &providerAdapter{inner: cfg.provider}, nil
	}
	if cfg.tmdb == nil || cfg.tmdb.apiKey == "" {
		return nil, nil
	}

	client := tmdb.NewClient(&tmdb.Config{
		APIKey:       cfg.tmdb.apiKey,
		BaseURL:      cfg.tmdb.baseURL,
		ImageBaseURL: cfg.tmdb.imageBaseURL,
		Timeout:      cfg.tmdb.timeout,
		RatePerSec:   cfg.tmdb.ratePerSec,
		Logger:       zap.NewNop(),
	})
	breaker := tmdb.NewBreakerProvider(client, tmdb.DefaultBreakerConfig(), zap.NewNop())
	return breaker, breaker
}

func createStore(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("movierec: create cache store: %w", err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("movierec: cache not ready: %w", err)
	}
	return s, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// providerAdapter wraps a public MetadataProvider to satisfy domain.MetadataProvider.
type providerAdapter struct {
	inner MetadataProvider
}

func (a *providerAdapter) FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error) {
	m, err := a.inner.FetchMetadata(ctx, movieID)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("%w: %w", domain.ErrMetadataFetchFailed, err)
	}
	return m.toDomain(), nil
}
