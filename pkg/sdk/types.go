package movierec

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
)

// Movie is a catalog entry.
type Movie struct {
	ID     int64
	Title  string
	Genres []string
	Year   *int // nil when the release year is unknown
}

// Metadata is display metadata for a movie. Zero values mean "not available".
type Metadata struct {
	PosterURL  string
	Rating     *float64
	Genres     []string
	IMDbURL    string
	TrailerURL string
}

// MetadataProvider fetches display metadata for a movie id.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, movieID int64) (Metadata, error)
}

// Filter narrows the catalog. The zero Filter selects every movie.
type Filter struct {
	Genres  []string // any-of; empty means all genres
	YearMin *int
	YearMax *int
}

// Facets lists the filter options of the loaded catalog.
type Facets struct {
	Genres    []string
	YearMin   *int
	YearMax   *int
	YearRange bool // false when every known year is the same
	Movies    int
}

// Card is one ranked, enriched recommendation.
type Card struct {
	Rank        int
	Movie       Movie
	Score       float32
	Metadata    Metadata
	GenreLabel  string
	RatingLabel string
}

// Recommendations is the result of a query.
type Recommendations struct {
	Title     string
	Cards     []Card
	NoMatches bool // the filter selected no movies
}

func (f Filter) toDomain() (domcat.Filter, error) {
	return domcat.NewFilter(f.Genres, f.YearMin, f.YearMax)
}

func movieFromDomain(m movie.Movie) Movie {
	out := Movie{ID: m.ID(), Title: m.Title(), Genres: m.Genres()}
	if y, ok := m.Year(); ok {
		out.Year = &y
	}
	return out
}

func metadataFromDomain(m metadata.Metadata) Metadata {
	return Metadata{
		PosterURL:  m.PosterURL,
		Rating:     m.Rating,
		Genres:     m.Genres,
		IMDbURL:    m.IMDbURL,
		TrailerURL: m.TrailerURL,
	}
}

func (m Metadata) toDomain() metadata.Metadata {
	return metadata.Metadata{
		PosterURL:  m.PosterURL,
		Rating:     m.Rating,
		Genres:     m.Genres,
		IMDbURL:    m.IMDbURL,
		TrailerURL: m.TrailerURL,
	}
}

func cardFromDomain(c recommendation.Card) Card {
	meta := c.Metadata()
	return Card{
		Rank:        c.Rank(),
		Movie:       movieFromDomain(c.Movie()),
		Score:       c.Score(),
		Metadata:    metadataFromDomain(meta),
		GenreLabel:  c.GenreLabel(),
		RatingLabel: meta.RatingLabel(),
	}
}

func facetsFromUseCase(f cataloguc.Facets) Facets {
	out := Facets{Genres: f.Genres, YearRange: f.YearRange, Movies: f.Movies}
	if f.HasYears {
		lo, hi := f.YearMin, f.YearMax
		out.YearMin, out.YearMax = &lo, &hi
	}
	return out
}
