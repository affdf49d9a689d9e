package chi

// ErrorCode is the machine-readable error code in JSON error bodies.
type ErrorCode string

// Error codes returned by the JSON API.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeTitleNotFound       ErrorCode = "title_not_found"
	ErrorCodeRateLimited         ErrorCode = "rate_limited"
	ErrorCodeArtifactUnavailable ErrorCode = "artifact_unavailable"
	ErrorCodeMetadataUnavailable ErrorCode = "metadata_unavailable"
	ErrorCodeCacheDisabled       ErrorCode = "cache_disabled"
	ErrorCodeInternal            ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FacetsResponse is the body of GET /api/v1/facets.
type FacetsResponse struct {
	Genres    []string `json:"genres"`
	YearMin   *int     `json:"year_min,omitempty"`
	YearMax   *int     `json:"year_max,omitempty"`
	YearRange bool     `json:"year_range"`
	Movies    int      `json:"movies"`
}

// MovieItem is one catalog entry.
type MovieItem struct {
	MovieID int64    `json:"movie_id"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`
	Year    *int     `json:"year,omitempty"`
}

// MovieListResponse is the body of GET /api/v1/movies.
type MovieListResponse struct {
	Items     []MovieItem `json:"items"`
	Total     int         `json:"total"`
	NoMatches bool        `json:"no_matches"`
}

// CardItem is one enriched recommendation.
type CardItem struct {
	Rank        int      `json:"rank"`
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	Year        *int     `json:"year,omitempty"`
	Score       float32  `json:"score"`
	Genres      string   `json:"genres"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Rating      *float64 `json:"rating"`
	RatingLabel string   `json:"rating_label"`
	IMDbURL     string   `json:"imdb_url,omitempty"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
}

// RecommendationListResponse is the body of GET /api/v1/recommendations.
type RecommendationListResponse struct {
	Title     string     `json:"title"`
	Items     []CardItem `json:"items"`
	Total     int        `json:"total"`
	NoMatches bool       `json:"no_matches"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
