package catalog

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/similarity"
)

// Catalog is an ordered movie list with its positionally aligned similarity matrix.
// Filtering returns a new Catalog; the receiver is never modified.
type Catalog struct {
	movies []movie.Movie
	matrix similarity.Matrix
	origin []int // index in the root catalog, nil for a root catalog
}

// New pairs movies with matrix. The matrix must have one row per movie.
func New(movies []movie.Movie, matrix similarity.Matrix) (Catalog, error) {
	if matrix.N() != len(movies) {
		return Catalog{}, fmt.Errorf("%w: similarity matrix is %dx%d but catalog has %d movies",
			domain.ErrArtifactCorrupt, matrix.N(), matrix.N(), len(movies))
	}
	return Catalog{movies: movies, matrix: matrix}, nil
}

// Len returns the number of movies.
func (c Catalog) Len() int { return len(c.movies) }

// IsEmpty reports whether no movies are present.
func (c Catalog) IsEmpty() bool { return len(c.movies) == 0 }

// Movie returns the movie at position i.
func (c Catalog) Movie(i int) movie.Movie { return c.movies[i] }

// Movies returns all movies in catalog order. Callers must not modify the slice.
func (c Catalog) Movies() []movie.Movie { return c.movies }

// Matrix returns the aligned similarity matrix.
func (c Catalog) Matrix() similarity.Matrix { return c.matrix }

// OriginalIndex maps position i to its position in the root catalog.
func (c Catalog) OriginalIndex(i int) int {
	if c.origin == nil {
		return i
	}
	return c.origin[i]
}

// IndexOf returns the position of the first movie whose title equals title exactly.
func (c Catalog) IndexOf(title string) (int, bool) {
	for i, m := range c.movies {
		if m.Title() == title {
			return i, true
		}
	}
	return -1, false
}

// Titles returns the movie titles in catalog order.
func (c Catalog) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title()
	}
	return out
}

// Genres returns the sorted set of distinct genre labels.
func (c Catalog) Genres() []string {
	seen := make(map[string]struct{})
	for _, m := range c.movies {
		for _, g := range m.Genres() {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// YearBounds returns the minimum and maximum known release year.
// ok is false when no movie has a year.
func (c Catalog) YearBounds() (minYear, maxYear int, ok bool) {
	for _, m := range c.movies {
		y, has := m.Year()
		if !has {
			continue
		}
		if !ok {
			minYear, maxYear, ok = y, y, true
			continue
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear, ok
}

// Filter returns the movies selected by f, in original order, with the principal
// submatrix on the same index set. An empty result is a valid, empty Catalog.
func (c Catalog) Filter(f Filter) Catalog {
	minYear, maxYear, hasYears := c.YearBounds()
	// Unknown-year movies are dropped only while yearActive.
	yearActive := hasYears && minYear != maxYear && f.narrows(minYear, maxYear)
	lo, hi := f.bounds(minYear, maxYear)

	indices := make([]int, 0, len(c.movies))
	for i, m := range c.movies {
		if !m.HasAnyGenre(f.genres) {
			continue
		}
		if yearActive {
			y, has := m.Year()
			if !has || y < lo || y > hi {
				continue
			}
		}
		indices = append(indices, i)
	}

	return c.subset(indices)
}

func (c Catalog) subset(indices []int) Catalog {
	movies := make([]movie.Movie, len(indices))
	origin := make([]int, len(indices))
	for a, i := range indices {
		movies[a] = c.movies[i]
		origin[a] = c.OriginalIndex(i)
	}
	return Catalog{
		movies: movies,
		matrix: c.matrix.Sub(indices),
		origin: origin,
	}
}
