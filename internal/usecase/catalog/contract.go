package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// Source provides the memoized full catalog.
type Source interface {
	Get(ctx context.Context) (domcat.Catalog, error)
}
