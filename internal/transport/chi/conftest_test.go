package chi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/similarity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// --- Mocks ---

type mockSource struct {
	catalog domcat.Catalog
	err     error
}

func (m *mockSource) Get(_ context.Context) (domcat.Catalog, error) {
	return m.catalog, m.err
}

func (m *mockSource) Loaded() bool { return m.err == nil }

type mockMetadata struct {
	fail map[int64]bool
}

func (m *mockMetadata) FetchMetadata(_ context.Context, id int64) (metadata.Metadata, error) {
	if m.fail[id] {
		return metadata.Metadata{}, domain.ErrMetadataFetchFailed
	}
	rating := 7.5
	return metadata.Metadata{
		PosterURL:  "https://image.tmdb.org/t/p/w500/poster.jpg",
		Rating:     &rating,
		Genres:     []string{"Action"},
		IMDbURL:    "https://www.imdb.com/title/tt0000001/",
		TrailerURL: "https://www.youtube.com/watch?v=abc",
	}, nil
}

type mockForgetter struct {
	ids []int64
	err error
}

func (m *mockForgetter) Forget(_ context.Context, id int64) error {
	m.ids = append(m.ids, id)
	return m.err
}

// --- Fixtures ---

func yearPtr(v int) *int { return &v }

// fourMovies: Alpha(Action, 2001), Beta(Drama, 2005), Gamma(Action|Comedy, 2010), Delta(Comedy, 2015).
func fourMovies(t *testing.T) domcat.Catalog {
	t.Helper()
	specs := []struct {
		id     int64
		title  string
		genres []string
		year   int
	}{
		{1, "Alpha", []string{"Action"}, 2001},
		{2, "Beta", []string{"Drama"}, 2005},
		{3, "Gamma", []string{"Action", "Comedy"}, 2010},
		{4, "Delta", []string{"Comedy"}, 2015},
	}
	movies := make([]movie.Movie, len(specs))
	for i, s := range specs {
		m, err := movie.New(s.id, s.title, s.genres, yearPtr(s.year))
		if err != nil {
			t.Fatal(err)
		}
		movies[i] = m
	}
	matrix, err := similarity.New(4, []float32{
		1, 0.9, 0.5, 0.1,
		0.9, 1, 0.3, 0.2,
		0.5, 0.3, 1, 0.7,
		0.1, 0.2, 0.7, 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	c, err := domcat.New(movies, matrix)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type testEnv struct {
	source    *mockSource
	meta      *mockMetadata
	forgetter *mockForgetter
	server    *Server
	router    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithForgetter(t, &mockForgetter{})
}

func newTestEnvWithForgetter(t *testing.T, forgetter *mockForgetter) *testEnv {
	t.Helper()
	env := &testEnv{
		source:    &mockSource{catalog: fourMovies(t)},
		meta:      &mockMetadata{},
		forgetter: forgetter,
	}

	catalog := cataloguc.New(env.source)
	recommend := recommenduc.New(catalog, env.meta, 5, 2, zap.NewNop())
	health := healthuc.New(env.source, nil, nil)

	var f MetadataForgetter
	if forgetter != nil {
		f = forgetter
	}
	env.server = NewServer(catalog, recommend, health, f, 10, zap.NewNop())

	r := chi.NewRouter()
	env.server.Register(r)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

var errBoom = errors.New("boom")

func errWrapMissing() error {
	return domain.NewArtifactMissing("artifacts/movie_list.parquet", errBoom)
}

func newRouterWith(s *Server, mws ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	s.Register(r, mws...)
	return r
}

func serve(h http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
