package artifact

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
)

func TestLoader_Load(t *testing.T) {
	l := NewLoader(writeParquet(t, threeMovies()), writeMatrix(t, identity3()), zap.NewNop())

	c, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 || c.Matrix().N() != 3 {
		t.Errorf("Len() = %d, N() = %d", c.Len(), c.Matrix().N())
	}
	if c.Matrix().At(1, 2) != 0.3 {
		t.Errorf("At(1,2) = %v", c.Matrix().At(1, 2))
	}
}

func TestLoader_DimensionMismatch(t *testing.T) {
	l := NewLoader(
		writeParquet(t, threeMovies()),
		writeMatrix(t, [][]float32{{1, 0}, {0, 1}}),
		zap.NewNop(),
	)

	_, err := l.Load(context.Background())
	if !errors.Is(err, domain.ErrArtifactCorrupt) {
		t.Fatalf("expected ErrArtifactCorrupt, got %v", err)
	}
}

func TestLoader_MissingSimilarity(t *testing.T) {
	l := NewLoader(
		writeParquet(t, threeMovies()),
		filepath.Join(t.TempDir(), "similarity.bin"),
		zap.NewNop(),
	)

	_, err := l.Load(context.Background())
	if !errors.Is(err, domain.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}

// --- Memo ---

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
	c     catalog.Catalog
}

func (s *countingSource) Load(_ context.Context) (catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.c, s.err
}

func TestMemo_LoadsOnceUnderConcurrency(t *testing.T) {
	src := &countingSource{}
	memo := NewMemo(src)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := memo.Get(context.Background()); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if !memo.Loaded() {
		t.Error("expected Loaded() = true")
	}
	if memo.Loads() != 1 {
		t.Errorf("Loads() = %d, want 1", memo.Loads())
	}
}

func TestMemo_ErrorNotCached(t *testing.T) {
	src := &countingSource{err: domain.ErrArtifactMissing}
	memo := NewMemo(src)

	if _, err := memo.Get(context.Background()); !errors.Is(err, domain.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
	if memo.Loaded() {
		t.Error("failed load must not be cached")
	}

	src.err = nil
	if _, err := memo.Get(context.Background()); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("source called %d times, want 2", src.calls)
	}
}

func TestMemo_Invalidate(t *testing.T) {
	src := &countingSource{}
	memo := NewMemo(src)

	_, _ = memo.Get(context.Background())
	_, _ = memo.Get(context.Background())
	memo.Invalidate()
	if memo.Loaded() {
		t.Error("expected Loaded() = false after Invalidate")
	}
	_, _ = memo.Get(context.Background())

	if src.calls != 2 {
		t.Errorf("source called %d times, want 2", src.calls)
	}
}
