package driven

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// ChunkIndex is the persistent nearest-neighbour store over document
// chunks. It is shared across all sessions in a process.
//
// Concurrency contract: queries issued during a Rebuild see either the
// fully-old or the fully-new index, never a mix. Implementations are
// safe for concurrent use.
type ChunkIndex interface {
	// Add indexes the given chunks. An empty slice is a no-op, not an
	// error. Added chunks survive a process restart.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the top-k most similar chunks for the text, ordered
	// by descending similarity with ties broken by insertion order.
	// A query against an empty index returns an empty result, never an
	// error.
	Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error)

	// Rebuild atomically replaces the entire index with the given
	// chunks. No partial or mixed state is ever queryable.
	Rebuild(ctx context.Context, chunks []domain.Chunk) error

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
