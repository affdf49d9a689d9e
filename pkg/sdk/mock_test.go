package movierec

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	filterFn func(ctx context.Context, f domcat.Filter) (domcat.Catalog, error)
	facetsFn func(ctx context.Context) (cataloguc.Facets, error)
}

func (m *mockCatalogUC) Filter(ctx context.Context, f domcat.Filter) (domcat.Catalog, error) {
	return m.filterFn(ctx, f)
}

func (m *mockCatalogUC) Facets(ctx context.Context) (cataloguc.Facets, error) {
	return m.facetsFn(ctx)
}

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, title string, f domcat.Filter, k int) (recommenduc.Result, error)
}

func (m *mockRecommendUC) Recommend(
	ctx context.Context, title string, f domcat.Filter, k int,
) (recommenduc.Result, error) {
	return m.recommendFn(ctx, title, f, k)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- MetadataProvider mock ---

type mockProvider struct {
	fn func(ctx context.Context, id int64) (Metadata, error)
}

func (m *mockProvider) FetchMetadata(ctx context.Context, id int64) (Metadata, error) {
	return m.fn(ctx, id)
}
