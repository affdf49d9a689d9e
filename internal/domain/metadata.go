package domain

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/metadata"
)

// KeyPrefix namespaces every key movierec writes to a shared cache.
const KeyPrefix = "movierec:"

// MetadataProvider is the shared movie metadata contract between layers.
// Implementations return errors wrapping ErrMetadataFetchFailed.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, movieID int64) (metadata.Metadata, error)
}
