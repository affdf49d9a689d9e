package metadata

import (
	"strconv"
	"strings"
)

const (
	imdbTitleBase = "https://www.imdb.com/title/"
	youtubeWatch  = "https://www.youtube.com/watch?v="
)

// Metadata is display data for one movie. Empty strings mean "not available".
type Metadata struct {
	PosterURL  string
	Rating     *float64 // nil renders as "N/A"
	Genres     []string
	IMDbURL    string
	TrailerURL string
	// Partial marks a lookup where some upstream part failed. Partial results
	// are served but never cached.
	Partial bool
}

// Placeholder returns the documented defaults used when a lookup fails.
func Placeholder() Metadata {
	return Metadata{}
}

// HasPoster reports whether a poster image is available.
func (m Metadata) HasPoster() bool { return m.PosterURL != "" }

// HasTrailer reports whether a trailer link is available.
func (m Metadata) HasTrailer() bool { return m.TrailerURL != "" }

// RatingLabel formats the rating for display.
func (m Metadata) RatingLabel() string {
	if m.Rating == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*m.Rating, 'f', 1, 64)
}

// GenreLabel joins genre names for display.
func (m Metadata) GenreLabel() string { return strings.Join(m.Genres, ", ") }

// PosterURL joins an image base and a poster path. Empty path yields "".
func PosterURL(imageBase, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBase, "/") + "/" + strings.TrimLeft(posterPath, "/")
}

// IMDbURL builds the IMDb title page for id. Empty id yields "".
func IMDbURL(imdbID string) string {
	if imdbID == "" {
		return ""
	}
	return imdbTitleBase + imdbID + "/"
}

// YouTubeURL builds a watch link for a video key. Empty key yields "".
func YouTubeURL(key string) string {
	if key == "" {
		return ""
	}
	return youtubeWatch + key
}
