package catalog

import (
	"context"
	"fmt"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// Facets describes the filter options offered to the user.
type Facets struct {
	Genres []string
	// HasYears is false when no movie has a known release year.
	HasYears bool
	YearMin  int
	YearMax  int
	// YearRange is false when the catalog has no years or a single year;
	// the year selector is hidden then.
	YearRange bool
	Movies    int
}

// Service is the catalog store: it loads the artifacts once and serves filtered views.
type Service struct {
	source Source
}

// New creates a catalog service.
func New(source Source) *Service {
	return &Service{source: source}
}

// Catalog returns the full catalog with its similarity matrix.
func (s *Service) Catalog(ctx context.Context) (domcat.Catalog, error) {
	c, err := s.source.Get(ctx)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// Filter returns the movies matching f with the aligned principal submatrix.
// An empty result is not an error.
func (s *Service) Filter(ctx context.Context, f domcat.Filter) (domcat.Catalog, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return domcat.Catalog{}, err
	}
	return c.Filter(f), nil
}

// Facets returns the distinct genres and year bounds of the full catalog.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return Facets{}, err
	}

	minYear, maxYear, ok := c.YearBounds()
	return Facets{
		Genres:    c.Genres(),
		HasYears:  ok,
		YearMin:   minYear,
		YearMax:   maxYear,
		YearRange: ok && minYear != maxYear,
		Movies:    c.Len(),
	}, nil
}
