package recommend

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
)

// CatalogFilter produces filtered catalog views.
type CatalogFilter interface {
	Filter(ctx context.Context, f domcat.Filter) (domcat.Catalog, error)
}

// MetadataProvider fetches display metadata for one movie.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error)
}
