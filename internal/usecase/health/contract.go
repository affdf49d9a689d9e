package health

import "context"

// CatalogState reports whether the artifacts are loaded.
type CatalogState interface {
	Loaded() bool
}

// CachePinger checks metadata cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BreakerState reports the metadata circuit breaker state.
type BreakerState interface {
	State() string
}
