package movie

import (
	"fmt"
	"strings"
)

// Movie is one catalog row (immutable value object).
type Movie struct {
	id      int64
	title   string
	genres  []string
	year    int
	hasYear bool
}

// New validates and creates a Movie. year may be nil when the release year is unknown.
func New(id int64, title string, genres []string, year *int) (Movie, error) {
	if strings.TrimSpace(title) == "" {
		return Movie{}, fmt.Errorf("movie %d: title is required", id)
	}
	m := Movie{id: id, title: title, genres: genres}
	if year != nil {
		m.year = *year
		m.hasYear = true
	}
	return m, nil
}

// ID returns the metadata API identifier.
func (m Movie) ID() int64 { return m.id }

// Title returns the display title.
func (m Movie) Title() string { return m.title }

// Genres returns the genre labels.
func (m Movie) Genres() []string { return m.genres }

// Year returns the release year and whether it is known.
func (m Movie) Year() (int, bool) { return m.year, m.hasYear }

// GenreLabel joins genres for display.
func (m Movie) GenreLabel() string { return strings.Join(m.genres, ", ") }

// HasAnyGenre reports whether at least one of the movie's genres is in set.
// An empty set matches every movie.
func (m Movie) HasAnyGenre(set map[string]struct{}) bool {
	if len(set) == 0 {
		return true
	}
	for _, g := range m.genres {
		if _, ok := set[g]; ok {
			return true
		}
	}
	return false
}

// ParseGenres splits a raw genre cell on "|" and "," into trimmed, de-duplicated labels.
func ParseGenres(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		g := strings.TrimSpace(p)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
