package chi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// errInvalidParam marks query parameters that failed to bind.
var errInvalidParam = errors.New("invalid parameter")

// filterParams are the shared genre/year query parameters.
type filterParams struct {
	Genre   *[]string
	YearMin *int
	YearMax *int
}

// recommendParams are the query parameters of a recommendation request.
type recommendParams struct {
	filterParams
	Title *string
	K     *int
}

func (p recommendParams) title() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

func bindFilterParams(r *http.Request) (filterParams, error) {
	var p filterParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "genre", q, &p.Genre); err != nil {
		return p, fmt.Errorf("%w: genre: %w", errInvalidParam, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "year_min", q, &p.YearMin); err != nil {
		return p, fmt.Errorf("%w: year_min: %w", errInvalidParam, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "year_max", q, &p.YearMax); err != nil {
		return p, fmt.Errorf("%w: year_max: %w", errInvalidParam, err)
	}
	return p, nil
}

func bindRecommendParams(r *http.Request) (recommendParams, error) {
	fp, err := bindFilterParams(r)
	if err != nil {
		return recommendParams{}, err
	}
	p := recommendParams{filterParams: fp}
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "title", q, &p.Title); err != nil {
		return p, fmt.Errorf("%w: title: %w", errInvalidParam, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "k", q, &p.K); err != nil {
		return p, fmt.Errorf("%w: k: %w", errInvalidParam, err)
	}
	return p, nil
}

// toFilter converts bound parameters into a catalog filter. Errors wrap domain.ErrInvalidFilter.
func (p filterParams) toFilter() (catalog.Filter, error) {
	var genres []string
	if p.Genre != nil {
		genres = *p.Genre
	}
	return catalog.NewFilter(genres, p.YearMin, p.YearMax)
}

func (p filterParams) hasGenre(g string) bool {
	if p.Genre == nil {
		return false
	}
	for _, s := range *p.Genre {
		if s == g {
			return true
		}
	}
	return false
}
