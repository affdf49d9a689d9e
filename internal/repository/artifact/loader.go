package artifact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// Loader reads the catalog and similarity artifacts from disk.
type Loader struct {
	catalogPath    string
	similarityPath string
	logger         *zap.Logger
}

// NewLoader creates a Loader for the given artifact paths.
func NewLoader(catalogPath, similarityPath string, logger *zap.Logger) *Loader {
	return &Loader{catalogPath: catalogPath, similarityPath: similarityPath, logger: logger}
}

// Load reads both artifacts and pairs them. Errors wrap domain.ErrArtifactMissing
// or domain.ErrArtifactCorrupt.
func (l *Loader) Load(ctx context.Context) (catalog.Catalog, error) {
	start := time.Now()

	movies, err := ReadCatalog(l.catalogPath)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return catalog.Catalog{}, fmt.Errorf("load artifacts: %w", err)
	}

	matrix, err := ReadMatrix(l.similarityPath)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("read similarity: %w", err)
	}

	c, err := catalog.New(movies, matrix)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("pair %s with %s: %w", l.catalogPath, l.similarityPath, err)
	}

	l.logger.Info("Artifacts loaded",
		zap.String("catalog_path", l.catalogPath),
		zap.String("similarity_path", l.similarityPath),
		zap.Int("movies", c.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return c, nil
}

// source is the consumer interface for Memo.
type source interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Memo loads the catalog once and serves the cached value afterwards.
// Concurrent first callers block on the single in-flight load. Failed loads
// are not cached.
type Memo struct {
	src source

	mu     sync.Mutex
	value  catalog.Catalog
	loaded bool
	loads  int
}

// NewMemo wraps src with load-once semantics.
func NewMemo(src source) *Memo {
	return &Memo{src: src}
}

// Get returns the cached catalog, loading it on first use.
func (m *Memo) Get(ctx context.Context) (catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.value, nil
	}

	c, err := m.src.Load(ctx)
	m.loads++
	if err != nil {
		return catalog.Catalog{}, err
	}
	m.value = c
	m.loaded = true
	return c, nil
}

// Loaded reports whether a catalog is cached.
func (m *Memo) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Invalidate drops the cached catalog; the next Get reloads it.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = catalog.Catalog{}
	m.loaded = false
}

// Loads returns how many times the underlying source was called.
func (m *Memo) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}
