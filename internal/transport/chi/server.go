package chi

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// MetadataForgetter drops cached metadata for a movie.
type MetadataForgetter interface {
	Forget(ctx context.Context, movieID int64) error
}

// Server serves the JSON API and the HTML page.
type Server struct {
	catalog       *cataloguc.Service
	recommend     *recommenduc.Service
	health        *healthuc.Service
	forgetter     MetadataForgetter
	maxK          int
	page          *template.Template
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server. forgetter can be nil when no cache is configured.
func NewServer(
	catalog *cataloguc.Service,
	recommend *recommenduc.Service,
	health *healthuc.Service,
	forgetter MetadataForgetter,
	maxK int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:   catalog,
		recommend: recommend,
		health:    health,
		forgetter: forgetter,
		maxK:      maxK,
		page:      pageTemplate,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTitleNotFound, http.StatusNotFound, ErrorCodeTitleNotFound),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(errInvalidParam, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrArtifactMissing, http.StatusServiceUnavailable, ErrorCodeArtifactUnavailable),
		sentinelHandler(domain.ErrArtifactCorrupt, http.StatusServiceUnavailable, ErrorCodeArtifactUnavailable),
		sentinelHandler(domain.ErrMetadataFetchFailed, http.StatusBadGateway, ErrorCodeMetadataUnavailable),
	}
	return s
}

// Register mounts all routes on r. apiMiddlewares wrap only the /api/v1 group.
func (s *Server) Register(r chi.Router, apiMiddlewares ...func(http.Handler) http.Handler) {
	r.Get("/", s.Page)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(apiMiddlewares...)
		api.Get("/facets", s.GetFacets)
		api.Get("/movies", s.ListMovies)
		api.Delete("/movies/{id}/metadata", s.ForgetMetadata)
		api.Get("/recommendations", s.GetRecommendations)
	})
}

// GetFacets handles GET /api/v1/facets.
func (s *Server) GetFacets(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalog.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := FacetsResponse{
		Genres:    f.Genres,
		YearRange: f.YearRange,
		Movies:    f.Movies,
	}
	if f.HasYears {
		resp.YearMin = &f.YearMin
		resp.YearMax = &f.YearMax
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMovies handles GET /api/v1/movies.
func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	params, err := bindFilterParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	filter, err := params.toFilter()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	view, err := s.catalog.Filter(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]MovieItem, view.Len())
	for i, m := range view.Movies() {
		items[i] = movieToItem(m)
	}

	writeJSON(w, http.StatusOK, MovieListResponse{
		Items:     items,
		Total:     len(items),
		NoMatches: view.IsEmpty(),
	})
}

// GetRecommendations handles GET /api/v1/recommendations.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	params, err := bindRecommendParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if params.title() == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "title is required")
		return
	}
	k := 0
	if params.K != nil {
		k = *params.K
		if k < 1 || k > s.maxK {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("k must be between 1 and %d", s.maxK))
			return
		}
	}
	filter, err := params.toFilter()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.recommend.Recommend(r.Context(), params.title(), filter, k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]CardItem, len(res.Cards))
	for i, c := range res.Cards {
		items[i] = cardToItem(c)
	}

	writeJSON(w, http.StatusOK, RecommendationListResponse{
		Title:     res.Title,
		Items:     items,
		Total:     len(items),
		NoMatches: res.NoMatches,
	})
}

// ForgetMetadata handles DELETE /api/v1/movies/{id}/metadata.
func (s *Server) ForgetMetadata(w http.ResponseWriter, r *http.Request) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "id must be an integer")
		return
	}

	if s.forgetter == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeCacheDisabled, "metadata cache is not configured")
		return
	}

	if err := s.forgetter.Forget(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func movieToItem(m movie.Movie) MovieItem {
	item := MovieItem{
		MovieID: m.ID(),
		Title:   m.Title(),
		Genres:  m.Genres(),
	}
	if y, ok := m.Year(); ok {
		item.Year = &y
	}
	return item
}

func cardToItem(c recommendation.Card) CardItem {
	meta := c.Metadata()
	m := c.Movie()
	item := CardItem{
		Rank:        c.Rank(),
		MovieID:     m.ID(),
		Title:       m.Title(),
		Score:       c.Score(),
		Genres:      c.GenreLabel(),
		PosterURL:   meta.PosterURL,
		Rating:      meta.Rating,
		RatingLabel: meta.RatingLabel(),
		IMDbURL:     meta.IMDbURL,
		TrailerURL:  meta.TrailerURL,
	}
	if y, ok := m.Year(); ok {
		item.Year = &y
	}
	return item
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
func safeDomainMessage(err error) string {
	if errors.Is(err, errInvalidParam) || errors.Is(err, domain.ErrInvalidFilter) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrTitleNotFound,
		domain.ErrArtifactMissing,
		domain.ErrArtifactCorrupt,
		domain.ErrMetadataFetchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logpkg.FromContext(r.Context()).Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, msg)
}
