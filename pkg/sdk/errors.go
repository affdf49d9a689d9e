package movierec

import "github.com/kailas-cloud/movierec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrArtifactMissing     = domain.ErrArtifactMissing
	ErrArtifactCorrupt     = domain.ErrArtifactCorrupt
	ErrTitleNotFound       = domain.ErrTitleNotFound
	ErrMetadataFetchFailed = domain.ErrMetadataFetchFailed
	ErrInvalidFilter       = domain.ErrInvalidFilter
)
