package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure ChunkIndex implements the interface.
var _ driven.ChunkIndex = (*ChunkIndex)(nil)

// entry pairs a stored chunk with its embedding and insertion sequence.
type entry struct {
	seq   int64
	chunk domain.Chunk
	vec   []float32
}

// snapshot is one immutable generation of the index. Queries read a
// snapshot without locking; writers build a new one and swap the
// pointer, so a rebuild is invisible until it is complete.
type snapshot struct {
	entries []entry
}

// ChunkIndex is a durable nearest-neighbour index. Rows live in SQLite;
// similarity scans run against an in-memory snapshot reloaded after
// every write.
type ChunkIndex struct {
	store    *Store
	embedder driven.EmbeddingService

	mu   sync.Mutex // serialises writers
	snap atomic.Pointer[snapshot]
}

// NewChunkIndex creates a chunk index over the store using the given
// embedder. Persisted chunks are loaded immediately, so the index is
// queryable from the first call.
func NewChunkIndex(store *Store, embedder driven.EmbeddingService) (*ChunkIndex, error) {
	idx := &ChunkIndex{store: store, embedder: embedder}
	if err := idx.reload(context.Background()); err != nil {
		return nil, fmt.Errorf("loading persisted chunks: %w", err)
	}
	return idx, nil
}

// Add indexes the given chunks on top of the existing content.
func (idx *ChunkIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	vecs, err := idx.embedAll(ctx, chunks)
	if err != nil {
		return err
	}

	tx, err := idx.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertChunks(ctx, tx, chunks, vecs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return idx.reload(ctx)
}

// Rebuild replaces the entire index with the given chunks. The delete
// and reinsert share one transaction and the snapshot swaps only after
// commit, so concurrent queries see the old index until the new one is
// fully in place.
func (idx *ChunkIndex) Rebuild(ctx context.Context, chunks []domain.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	vecs, err := idx.embedAll(ctx, chunks)
	if err != nil {
		return err
	}

	tx, err := idx.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if err := insertChunks(ctx, tx, chunks, vecs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger.Info("Index rebuilt with %d chunks", len(chunks))
	return idx.reload(ctx)
}

// Query returns the top-k chunks most similar to the text, ordered by
// descending cosine similarity with ties broken by insertion order.
func (idx *ChunkIndex) Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	snap := idx.snap.Load()
	if snap == nil || len(snap.entries) == 0 || k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	queryVec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	scored := make([]struct {
		entry
		sim float64
	}, len(snap.entries))
	for i, e := range snap.entries {
		scored[i].entry = e
		scored[i].sim = cosine(queryVec, e.vec)
	}

	// Entries start in seq order; the stable sort keeps that order
	// among equal similarities.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].sim > scored[j].sim
	})

	if k > len(scored) {
		k = len(scored)
	}
	out := make([]domain.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		out[i] = domain.RetrievedChunk{
			Chunk:      scored[i].chunk,
			Rank:       i,
			Similarity: scored[i].sim,
		}
	}
	return out, nil
}

// Count returns the number of indexed chunks.
func (idx *ChunkIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := idx.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Close releases index resources. The owning Store closes the database
// connection.
func (idx *ChunkIndex) Close() error {
	return nil
}

// Reload refreshes the in-memory snapshot from the database. Callers
// use it after an external writer signals the index changed.
func (idx *ChunkIndex) Reload(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.reload(ctx)
}

func (idx *ChunkIndex) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return vecs, nil
}

func insertChunks(ctx context.Context, tx *sql.Tx, chunks []domain.Chunk, vecs [][]float32) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source, text, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Text, encodeVector(vecs[i])); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

// reload rebuilds the snapshot from the chunks table in seq order.
func (idx *ChunkIndex) reload(ctx context.Context) error {
	rows, err := idx.store.db.QueryContext(ctx, `
		SELECT seq, id, source, text, embedding FROM chunks ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	var entries []entry
	for rows.Next() {
		var e entry
		var blob []byte
		if err := rows.Scan(&e.seq, &e.chunk.ID, &e.chunk.Source, &e.chunk.Text, &blob); err != nil {
			return fmt.Errorf("scanning chunk: %w", err)
		}
		e.vec = decodeVector(blob)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chunks: %w", err)
	}

	idx.snap.Store(&snapshot{entries: entries})
	return nil
}

// encodeVector serialises an embedding as little-endian float32 bits.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}

// cosine computes cosine similarity without assuming unit vectors.
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
