package driving

import (
	"context"
	"time"
)

// IndexStats summarises an index build or the current index state.
type IndexStats struct {
	// Documents is the number of source documents processed.
	Documents int

	// Chunks is the number of chunks in the index.
	Chunks int

	// LastBuild is when the index was last built, zero if never.
	LastBuild time.Time

	// Elapsed is how long the build took (build/rebuild only).
	Elapsed time.Duration
}

// IndexService builds and inspects the chunk index from the configured
// document sources. Build appends; Rebuild atomically replaces.
type IndexService interface {
	// Build indexes all configured sources on top of the existing index.
	Build(ctx context.Context) (IndexStats, error)

	// Rebuild discards the index and re-indexes all configured sources
	// as one atomic replacement.
	Rebuild(ctx context.Context) (IndexStats, error)

	// Status reports the current chunk count and last build time.
	Status(ctx context.Context) (IndexStats, error)
}
