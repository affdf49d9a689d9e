package metacache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
)

var cacheKeyPrefix = domain.KeyPrefix + "meta:"

// store is the consumer interface for the metadata cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedProvider caches movie metadata in a key-value store.
type CachedProvider struct {
	inner      domain.MetadataProvider
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.MetadataProvider,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedProvider {
	return &CachedProvider{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// FetchMetadata returns cached metadata or calls the inner provider.
// Failed and partial lookups are never cached, so the next request retries upstream.
func (c *CachedProvider) FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error) {
	key := CacheKey(movieID)

	if m, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return m, nil
	}

	c.incCache("miss")

	m, err := c.inner.FetchMetadata(ctx, movieID)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("fetch metadata %d: %w", movieID, err)
	}

	if m.Partial {
		c.logger.Debug("Skipping cache for partial metadata", zap.Int64("movie_id", movieID))
		return m, nil
	}

	c.putToCache(ctx, key, m)
	return m, nil
}

// Forget drops the cached entry for movieID.
func (c *CachedProvider) Forget(ctx context.Context, movieID int64) error {
	if err := c.store.Del(ctx, CacheKey(movieID)); err != nil {
		return fmt.Errorf("forget metadata %d: %w", movieID, err)
	}
	return nil
}

// CacheKey returns the store key for a movie id.
func CacheKey(movieID int64) string {
	return cacheKeyPrefix + strconv.FormatInt(movieID, 10)
}

func (c *CachedProvider) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedProvider) getFromCache(ctx context.Context, key string) (metadata.Metadata, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached metadata", zap.String("key", key), zap.Error(err))
		}
		return metadata.Metadata{}, false
	}
	if len(data) == 0 {
		return metadata.Metadata{}, false
	}

	m, err := decodeMetadata(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached metadata", zap.String("key", key), zap.Error(err))
		return metadata.Metadata{}, false
	}

	return m, true
}

func (c *CachedProvider) putToCache(ctx context.Context, key string, m metadata.Metadata) {
	data, err := encodeMetadata(m)
	if err != nil {
		c.logger.Warn("Failed to encode metadata", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache metadata", zap.String("key", key), zap.Error(err))
	}
}
