package chi

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
)

//go:embed templates/index.html
var pageHTML string

var pageTemplate = template.Must(template.New("index").Parse(pageHTML))

const actionRecommend = "recommend"

type genreOption struct {
	Name     string
	Selected bool
}

type titleOption struct {
	Title    string
	Selected bool
}

type cardView struct {
	Title       string
	PosterURL   string
	RatingLabel string
	Genres      string
	IMDbURL     string
	TrailerURL  string
}

type pageData struct {
	Genres     []genreOption
	YearRange  bool
	YearMin    int
	YearMax    int
	SelYearMin int
	SelYearMax int
	Titles     []titleOption
	NoMatches  bool
	NotFound   bool
	Error      string
	Cards      []cardView
}

// Page handles GET /: filter form, title picker and recommendation grid.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pageData{}

	facets, err := s.catalog.Facets(ctx)
	if err != nil {
		logpkg.FromContext(ctx).Error("Catalog unavailable", zap.Error(err))
		data.Error = "The movie catalog is not available right now."
		s.renderPage(w, r, http.StatusServiceUnavailable, data)
		return
	}

	params, err := bindRecommendParams(r)
	if err != nil {
		data.Error = "Invalid filter: " + err.Error()
		s.renderPage(w, r, http.StatusBadRequest, data)
		return
	}

	data.Genres = make([]genreOption, len(facets.Genres))
	for i, g := range facets.Genres {
		data.Genres[i] = genreOption{Name: g, Selected: params.hasGenre(g)}
	}
	data.YearRange = facets.YearRange
	data.YearMin, data.YearMax = facets.YearMin, facets.YearMax
	data.SelYearMin, data.SelYearMax = facets.YearMin, facets.YearMax
	if params.YearMin != nil {
		data.SelYearMin = *params.YearMin
	}
	if params.YearMax != nil {
		data.SelYearMax = *params.YearMax
	}

	filter, err := params.toFilter()
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, data)
		return
	}

	view, err := s.catalog.Filter(ctx, filter)
	if err != nil {
		s.pageError(w, r, data, err)
		return
	}
	if view.IsEmpty() {
		data.NoMatches = true
		s.renderPage(w, r, http.StatusOK, data)
		return
	}

	data.Titles = make([]titleOption, view.Len())
	for i, t := range view.Titles() {
		data.Titles[i] = titleOption{Title: t, Selected: t == params.title()}
	}

	if r.URL.Query().Get("action") != actionRecommend {
		s.renderPage(w, r, http.StatusOK, data)
		return
	}

	res, err := s.recommend.Recommend(ctx, params.title(), filter, 0)
	switch {
	case errors.Is(err, domain.ErrTitleNotFound):
		data.NotFound = true
	case err != nil:
		s.pageError(w, r, data, err)
		return
	case res.NoMatches:
		data.NoMatches = true
	default:
		data.Cards = make([]cardView, len(res.Cards))
		for i, c := range res.Cards {
			data.Cards[i] = cardToView(c)
		}
	}

	s.renderPage(w, r, http.StatusOK, data)
}

func (s *Server) pageError(w http.ResponseWriter, r *http.Request, data pageData, err error) {
	logpkg.FromContext(r.Context()).Error("Page request failed", zap.Error(err))
	data.Error = "Something went wrong. Please try again."
	s.renderPage(w, r, http.StatusInternalServerError, data)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		logpkg.FromContext(r.Context()).Error("Failed to render page", zap.Error(err))
	}
}

func cardToView(c recommendation.Card) cardView {
	meta := c.Metadata()
	return cardView{
		Title:       c.Movie().Title(),
		PosterURL:   meta.PosterURL,
		RatingLabel: meta.RatingLabel(),
		Genres:      c.GenreLabel(),
		IMDbURL:     meta.IMDbURL,
		TrailerURL:  meta.TrailerURL,
	}
}
