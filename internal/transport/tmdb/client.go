package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/metrics"
)

const (
	endpointDetails = "details"
	endpointVideos  = "videos"

	maxErrorBody = 4 << 10
)

// Defaults applied by NewClient to empty Config fields.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage     = "en-US"
)

// ErrUnknownMovie is returned when TMDB has no record for the id.
var ErrUnknownMovie = fmt.Errorf("unknown movie: %w", domain.ErrMetadataFetchFailed)

// Config holds the TMDB client settings.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
	RatePerSec   float64
	Burst        int
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client fetches movie metadata from the TMDB v3 REST API.
type Client struct {
	http         *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewClient creates a TMDB client. RatePerSec <= 0 disables outbound throttling.
// Empty BaseURL, ImageBaseURL and Language fall back to the Default* constants.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		http:         hc,
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(orDefault(cfg.BaseURL, DefaultBaseURL), "/"),
		imageBaseURL: orDefault(cfg.ImageBaseURL, DefaultImageBaseURL),
		language:     orDefault(cfg.Language, DefaultLanguage),
		timeout:      cfg.Timeout,
		limiter:      rate.NewLimiter(limit, burst),
		logger:       cfg.Logger,
	}
}

// FetchMetadata implements domain.MetadataProvider. Details are required;
// a failed videos lookup only drops the trailer link.
func (c *Client) FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var details movieDetails
	if err := c.get(ctx, endpointDetails, fmt.Sprintf("/movie/%d", movieID), &details); err != nil {
		return metadata.Metadata{}, err
	}

	m := metadata.Metadata{
		PosterURL: metadata.PosterURL(c.imageBaseURL, details.PosterPath),
		Rating:    details.VoteAverage,
		Genres:    details.genreNames(),
		IMDbURL:   metadata.IMDbURL(details.IMDbID),
	}

	var videos movieVideos
	if err := c.get(ctx, endpointVideos, fmt.Sprintf("/movie/%d/videos", movieID), &videos); err != nil {
		c.logger.Warn("Trailer lookup failed", zap.Int64("movie_id", movieID), zap.Error(err))
		m.Partial = true
		return m, nil
	}
	m.TrailerURL = metadata.YouTubeURL(videos.trailerKey())

	return m, nil
}

// get performs one throttled GET and decodes the JSON body into out.
// All errors wrap domain.ErrMetadataFetchFailed.
func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		c.recordError(endpoint, "throttled")
		return fmt.Errorf("tmdb %s: wait for rate limiter: %w: %w", endpoint, domain.ErrMetadataFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(path), http.NoBody)
	if err != nil {
		c.recordError(endpoint, "request")
		return fmt.Errorf("tmdb %s: build request: %w: %w", endpoint, domain.ErrMetadataFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.TMDBRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.recordError(endpoint, transportErrorType(err))
		return fmt.Errorf("tmdb %s: %w: %w", endpoint, domain.ErrMetadataFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		metrics.TMDBErrorsTotal.WithLabelValues(endpoint, "status").Inc()
		return statusError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "200").Inc()
		metrics.TMDBErrorsTotal.WithLabelValues(endpoint, "decode").Inc()
		return fmt.Errorf("tmdb %s: decode response: %w: %w", endpoint, domain.ErrMetadataFetchFailed, err)
	}

	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "200").Inc()
	return nil
}

func (c *Client) endpointURL(path string) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	return c.baseURL + path + "?" + q.Encode()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Client) recordError(endpoint, errorType string) {
	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	metrics.TMDBErrorsTotal.WithLabelValues(endpoint, errorType).Inc()
}

// statusError builds an error from a non-200 response, preferring TMDB's status_message.
func statusError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	wrap := domain.ErrMetadataFetchFailed
	if resp.StatusCode == http.StatusNotFound {
		wrap = ErrUnknownMovie
	}

	var parsed apiError
	if json.Unmarshal(body, &parsed) == nil && parsed.StatusMessage != "" {
		return fmt.Errorf("tmdb %s: status %d: %s: %w", endpoint, resp.StatusCode, parsed.StatusMessage, wrap)
	}
	return fmt.Errorf("tmdb %s: status %d: %w", endpoint, resp.StatusCode, wrap)
}

func transportErrorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}
