package catalog

import (
	"fmt"

	"github.com/kailas-cloud/movierec/internal/domain"
)

// Filter selects movies by genre membership and inclusive release-year range.
// The zero Filter selects everything.
type Filter struct {
	genres  map[string]struct{}
	yearMin *int
	yearMax *int
}

// NewFilter validates and creates a Filter. Nil year bounds default to the
// catalog's observed bounds at filtering time.
func NewFilter(genres []string, yearMin, yearMax *int) (Filter, error) {
	if yearMin != nil && yearMax != nil && *yearMin > *yearMax {
		return Filter{}, fmt.Errorf("%w: year_min %d is greater than year_max %d",
			domain.ErrInvalidFilter, *yearMin, *yearMax)
	}
	var set map[string]struct{}
	if len(genres) > 0 {
		set = make(map[string]struct{}, len(genres))
		for _, g := range genres {
			if g == "" {
				continue
			}
			set[g] = struct{}{}
		}
	}
	return Filter{genres: set, yearMin: yearMin, yearMax: yearMax}, nil
}

// Genres returns the selected genre labels (unordered).
func (f Filter) Genres() []string {
	out := make([]string, 0, len(f.genres))
	for g := range f.genres {
		out = append(out, g)
	}
	return out
}

// IsEmpty reports whether the filter selects everything regardless of catalog.
func (f Filter) IsEmpty() bool {
	return len(f.genres) == 0 && f.yearMin == nil && f.yearMax == nil
}

func (f Filter) bounds(minYear, maxYear int) (lo, hi int) {
	lo, hi = minYear, maxYear
	if f.yearMin != nil {
		lo = *f.yearMin
	}
	if f.yearMax != nil {
		hi = *f.yearMax
	}
	return lo, hi
}

// narrows reports whether the requested range is stricter than the observed one.
// A range equal to (or wider than) the observed bounds disables year filtering,
// so unknown-year movies stay in until some bound actually cuts the catalog.
func (f Filter) narrows(minYear, maxYear int) bool {
	lo, hi := f.bounds(minYear, maxYear)
	return lo > minYear || hi < maxYear
}
