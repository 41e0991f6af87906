package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// Splitter turns one acquired document into indexable chunks.
type Splitter interface {
	Split(doc domain.SourceDocument) []domain.Chunk
}

// Indexer builds the chunk index from the configured document sources.
// Build appends to the existing index; Rebuild is the administrative
// stop-the-world replacement.
type Indexer struct {
	index    driven.ChunkIndex
	sources  []driven.DocumentSource
	splitter Splitter

	// statePath records the last build time across restarts.
	statePath string
}

// NewIndexer creates an indexer over the given index and sources.
func NewIndexer(index driven.ChunkIndex, splitter Splitter, sources ...driven.DocumentSource) *Indexer {
	return &Indexer{index: index, splitter: splitter, sources: sources}
}

// SetStatePath sets where the last build timestamp is recorded.
func (ix *Indexer) SetStatePath(path string) {
	ix.statePath = path
}

// Build indexes all configured sources on top of the existing index.
func (ix *Indexer) Build(ctx context.Context) (driving.IndexStats, error) {
	return ix.run(ctx, false)
}

// Rebuild atomically replaces the index with freshly acquired content.
// Queries issued while it runs see the old index until the swap.
func (ix *Indexer) Rebuild(ctx context.Context) (driving.IndexStats, error) {
	return ix.run(ctx, true)
}

func (ix *Indexer) run(ctx context.Context, replace bool) (driving.IndexStats, error) {
	if ix.index == nil {
		return driving.IndexStats{}, domain.ErrIndexUnavailable
	}

	logger.Section("Index Build")
	start := time.Now()

	var chunks []domain.Chunk
	docs := 0
	for _, src := range ix.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			// A failing source does not abort the build; the original
			// acquisition pipeline skips what it cannot fetch.
			logger.Warn("Source %s failed: %v", src.Name(), err)
			continue
		}
		for _, doc := range loaded {
			if strings.TrimSpace(doc.Text) == "" {
				continue
			}
			docs++
			chunks = append(chunks, ix.splitter.Split(doc)...)
		}
	}
	logger.Info("Acquired %d documents, %d chunks", docs, len(chunks))

	var err error
	if replace {
		err = ix.index.Rebuild(ctx, chunks)
	} else {
		err = ix.index.Add(ctx, chunks)
	}
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("index chunks: %w", err)
	}

	now := time.Now()
	ix.recordBuildTime(now)

	count, err := ix.index.Count(ctx)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("count chunks: %w", err)
	}

	return driving.IndexStats{
		Documents: docs,
		Chunks:    count,
		LastBuild: now,
		Elapsed:   time.Since(start),
	}, nil
}

// Status reports the current chunk count and last recorded build time.
func (ix *Indexer) Status(ctx context.Context) (driving.IndexStats, error) {
	if ix.index == nil {
		return driving.IndexStats{}, domain.ErrIndexUnavailable
	}

	count, err := ix.index.Count(ctx)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("count chunks: %w", err)
	}

	return driving.IndexStats{
		Chunks:    count,
		LastBuild: ix.lastBuildTime(),
	}, nil
}

func (ix *Indexer) recordBuildTime(t time.Time) {
	if ix.statePath == "" {
		return
	}
	if err := os.WriteFile(ix.statePath, []byte(t.Format(time.RFC3339)), 0600); err != nil {
		logger.Warn("Failed to record build time: %v", err)
	}
}

func (ix *Indexer) lastBuildTime() time.Time {
	if ix.statePath == "" {
		return time.Time{}
	}
	data, err := os.ReadFile(ix.statePath)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}
	}
	return t
}
