package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/metrics"
)

// Result is the outcome of one recommendation request.
type Result struct {
	Title string
	Cards []recommendation.Card
	// NoMatches is set when the filter selects no movies; the title lookup is skipped.
	NoMatches bool
}

// Service ranks similar movies and enriches them with display metadata.
type Service struct {
	catalogs       CatalogFilter
	meta           MetadataProvider
	defaultK       int
	maxConcurrency int
	logger         *zap.Logger
}

// New creates a recommendation service. meta can be nil (placeholders only).
func New(catalogs CatalogFilter, meta MetadataProvider, defaultK, maxConcurrency int, logger *zap.Logger) *Service {
	if defaultK <= 0 {
		defaultK = DefaultK
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Service{
		catalogs:       catalogs,
		meta:           meta,
		defaultK:       defaultK,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Recommend filters the catalog, ranks title's neighbours and enriches them.
// k <= 0 uses the configured default. Metadata failures never fail the request.
func (s *Service) Recommend(ctx context.Context, title string, f domcat.Filter, k int) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	}()

	if k <= 0 {
		k = s.defaultK
	}

	view, err := s.catalogs.Filter(ctx, f)
	if err != nil {
		return Result{}, fmt.Errorf("filter catalog: %w", err)
	}
	if view.IsEmpty() {
		metrics.RecommendationsTotal.WithLabelValues("no_matches").Inc()
		return Result{Title: title, Cards: []recommendation.Card{}, NoMatches: true}, nil
	}

	recs, err := Rank(view, title, k)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("title_not_found").Inc()
		return Result{}, fmt.Errorf("rank: %w", err)
	}

	cards := s.enrich(ctx, recs)
	metrics.RecommendationsTotal.WithLabelValues("ok").Inc()

	return Result{Title: title, Cards: cards}, nil
}

// enrich fetches metadata for every recommendation with bounded concurrency.
// Output order matches recs.
func (s *Service) enrich(ctx context.Context, recs []recommendation.Recommendation) []recommendation.Card {
	cards := make([]recommendation.Card, len(recs))
	if s.meta == nil {
		for i, r := range recs {
			cards[i] = recommendation.NewCard(r, metadata.Placeholder())
		}
		return cards
	}

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, r := range recs {
		g.Go(func() error {
			cards[i] = recommendation.NewCard(r, s.lookup(ctx, r))
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors

	return cards
}

func (s *Service) lookup(ctx context.Context, r recommendation.Recommendation) metadata.Metadata {
	id := r.Movie().ID()

	m, err := s.meta.FetchMetadata(ctx, id)
	if err != nil {
		reason := "fetch_failed"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.MetadataFallbackTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("Metadata lookup failed, using placeholder",
			zap.Int64("movie_id", id),
			zap.String("title", r.Movie().Title()),
			zap.Error(err),
		)
		return metadata.Placeholder()
	}
	return m
}
