package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/metrics"
)

// BreakerConfig tunes the circuit breaker in front of the metadata API.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // trial requests allowed while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open -> half-open delay
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "tmdb-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerProvider wraps a MetadataProvider with a circuit breaker. While the
// circuit is open lookups fail fast with domain.ErrMetadataFetchFailed.
type BreakerProvider struct {
	inner  domain.MetadataProvider
	cb     *gobreaker.CircuitBreaker[metadata.Metadata]
	name   string
	logger *zap.Logger
}

// NewBreakerProvider creates a breaker-protected provider.
func NewBreakerProvider(inner domain.MetadataProvider, cfg BreakerConfig, logger *zap.Logger) *BreakerProvider {
	metrics.BreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[metadata.Metadata](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// Unknown ids and caller cancellation say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownMovie) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerProvider{inner: inner, cb: cb, name: cfg.Name, logger: logger}
}

// FetchMetadata implements domain.MetadataProvider.
func (b *BreakerProvider) FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error) {
	m, err := b.cb.Execute(func() (metadata.Metadata, error) {
		return b.inner.FetchMetadata(ctx, movieID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.TMDBErrorsTotal.WithLabelValues(b.name, "rejected").Inc()
			return metadata.Metadata{}, fmt.Errorf("%s: %w: %w", b.name, domain.ErrMetadataFetchFailed, err)
		}
		return metadata.Metadata{}, err
	}
	return m, nil
}

// State reports the current breaker state ("closed", "half-open", "open").
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
