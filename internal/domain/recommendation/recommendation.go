package recommendation

import (
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// Recommendation is one ranked neighbour of a query movie.
type Recommendation struct {
	movie movie.Movie
	score float32
	rank  int
}

// New creates a recommendation. rank is 1-based.
func New(m movie.Movie, score float32, rank int) Recommendation {
	return Recommendation{movie: m, score: score, rank: rank}
}

// Movie returns the recommended movie.
func (r Recommendation) Movie() movie.Movie { return r.movie }

// Score returns the similarity to the query movie.
func (r Recommendation) Score() float32 { return r.score }

// Rank returns the 1-based position in the result list.
func (r Recommendation) Rank() int { return r.rank }

// Card is a recommendation enriched with display metadata.
type Card struct {
	Recommendation
	meta metadata.Metadata
}

// NewCard attaches metadata to a recommendation.
func NewCard(r Recommendation, meta metadata.Metadata) Card {
	return Card{Recommendation: r, meta: meta}
}

// Metadata returns the display metadata (possibly placeholder values).
func (c Card) Metadata() metadata.Metadata { return c.meta }

// GenreLabel prefers metadata genres and falls back to catalog genres.
func (c Card) GenreLabel() string {
	if len(c.meta.Genres) > 0 {
		return c.meta.GenreLabel()
	}
	return c.movie.GenreLabel()
}
