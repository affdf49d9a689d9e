package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactMissing signals that a catalog or similarity artifact could not be located.
	ErrArtifactMissing = errors.New("artifact missing")
	// ErrArtifactCorrupt signals an artifact that failed to decode or does not line up with its pair.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	// ErrTitleNotFound signals a query title absent from the (filtered) catalog.
	ErrTitleNotFound = errors.New("title not found")
	// ErrMetadataFetchFailed signals a failed metadata lookup (timeout, non-200, bad payload).
	ErrMetadataFetchFailed = errors.New("metadata fetch failed")
	// ErrInvalidFilter signals a malformed genre/year filter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ArtifactError wraps an artifact sentinel with the offending path.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err.Error())
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// NewArtifactMissing builds an ErrArtifactMissing error for path.
func NewArtifactMissing(path string, cause error) error {
	return &ArtifactError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactMissing, cause)}
}

// NewArtifactCorrupt builds an ErrArtifactCorrupt error for path.
func NewArtifactCorrupt(path string, cause error) error {
	return &ArtifactError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, cause)}
}
