// Package memory provides in-memory implementations of the storage
// ports. Nothing survives a process restart; these back tests and the
// ephemeral development mode.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
)

// Ensure ChunkIndex implements the interface.
var _ driven.ChunkIndex = (*ChunkIndex)(nil)

type indexedChunk struct {
	chunk domain.Chunk
	vec   []float32
}

// ChunkIndex is an in-memory brute-force cosine similarity index.
type ChunkIndex struct {
	embedder driven.EmbeddingService

	mu      sync.RWMutex
	entries []indexedChunk
	byID    map[string]int
}

// NewChunkIndex creates an empty in-memory chunk index.
func NewChunkIndex(embedder driven.EmbeddingService) *ChunkIndex {
	return &ChunkIndex{embedder: embedder, byID: make(map[string]int)}
}

// Add indexes the given chunks. A chunk with a known ID replaces the
// earlier entry, keeping its insertion position. Replacements copy the
// entry slice first so a Query holding the previous snapshot keeps
// scoring unmodified entries.
func (idx *ChunkIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	entries := idx.entries
	copied := false
	for i, c := range chunks {
		if pos, ok := idx.byID[c.ID]; ok {
			if !copied {
				entries = append([]indexedChunk(nil), entries...)
				copied = true
			}
			entries[pos] = indexedChunk{chunk: c, vec: vecs[i]}
			continue
		}
		idx.byID[c.ID] = len(entries)
		entries = append(entries, indexedChunk{chunk: c, vec: vecs[i]})
	}
	idx.entries = entries
	return nil
}

// Query returns the top-k most similar chunks, ties broken by
// insertion order.
func (idx *ChunkIndex) Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()

	if len(entries) == 0 || k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	queryVec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	scored := make([]struct {
		chunk domain.Chunk
		sim   float64
	}, len(entries))
	for i, e := range entries {
		scored[i].chunk = e.chunk
		scored[i].sim = cosine(queryVec, e.vec)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].sim > scored[j].sim
	})

	if k > len(scored) {
		k = len(scored)
	}
	out := make([]domain.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		out[i] = domain.RetrievedChunk{Chunk: scored[i].chunk, Rank: i, Similarity: scored[i].sim}
	}
	return out, nil
}

// Rebuild replaces the index contents under one lock acquisition, so
// readers see the old or the new generation, never both.
func (idx *ChunkIndex) Rebuild(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	var vecs [][]float32
	if len(chunks) > 0 {
		var err error
		vecs, err = idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
	}

	entries := make([]indexedChunk, len(chunks))
	byID := make(map[string]int, len(chunks))
	for i, c := range chunks {
		entries[i] = indexedChunk{chunk: c, vec: vecs[i]}
		byID[c.ID] = i
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.byID = byID
	idx.mu.Unlock()
	return nil
}

// Count returns the number of indexed chunks.
func (idx *ChunkIndex) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

// Close releases resources.
func (idx *ChunkIndex) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
