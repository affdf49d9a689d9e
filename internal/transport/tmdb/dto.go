package tmdb

// movieDetails is the subset of GET /movie/{id} that movierec renders.
type movieDetails struct {
	PosterPath  string   `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	IMDbID      string   `json:"imdb_id"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (d movieDetails) genreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// movieVideos is GET /movie/{id}/videos.
type movieVideos struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// trailerKey returns the key of the first YouTube trailer, or "".
func (v movieVideos) trailerKey() string {
	for _, r := range v.Results {
		if r.Type == "Trailer" && r.Site == "YouTube" && r.Key != "" {
			return r.Key
		}
	}
	return ""
}

// apiError is the TMDB error envelope.
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
