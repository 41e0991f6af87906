package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// wholeDocSplitter emits one chunk per document.
type wholeDocSplitter struct{}

func (wholeDocSplitter) Split(doc domain.SourceDocument) []domain.Chunk {
	return []domain.Chunk{{
		ID:     fmt.Sprintf("%s#0", doc.Source),
		Text:   doc.Text,
		Source: doc.Source,
	}}
}

func TestIndexerBuild_AppendsChunks(t *testing.T) {
	index := &mockIndex{}
	src := &mockSource{name: "docs", docs: []domain.SourceDocument{
		{Source: "a.md", Text: "alpha"},
		{Source: "b.md", Text: "beta"},
	}}
	ix := NewIndexer(index, wholeDocSplitter{}, src)

	stats, err := ix.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)
	assert.Len(t, index.added, 2)
	assert.Empty(t, index.rebuilt, "Build must not replace the index")
	assert.False(t, stats.LastBuild.IsZero())
}

func TestIndexerBuild_SkipsEmptyDocuments(t *testing.T) {
	index := &mockIndex{}
	src := &mockSource{name: "docs", docs: []domain.SourceDocument{
		{Source: "a.md", Text: "alpha"},
		{Source: "empty.md", Text: "   \n  "},
	}}
	ix := NewIndexer(index, wholeDocSplitter{}, src)

	stats, err := ix.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Len(t, index.added, 1)
}

func TestIndexerBuild_FailingSourceSkipped(t *testing.T) {
	index := &mockIndex{}
	broken := &mockSource{name: "crawler", err: errors.New("dial tcp: timeout")}
	working := &mockSource{name: "docs", docs: []domain.SourceDocument{
		{Source: "a.md", Text: "alpha"},
	}}
	ix := NewIndexer(index, wholeDocSplitter{}, broken, working)

	stats, err := ix.Build(context.Background())

	require.NoError(t, err, "one failing source does not abort the build")
	assert.Equal(t, 1, stats.Documents)
	assert.Len(t, index.added, 1)
}

func TestIndexerRebuild_ReplacesIndex(t *testing.T) {
	index := &mockIndex{}
	ctx := context.Background()

	ten := make([]domain.SourceDocument, 10)
	for i := range ten {
		ten[i] = domain.SourceDocument{Source: fmt.Sprintf("doc%d.md", i), Text: "content"}
	}
	ix := NewIndexer(index, wholeDocSplitter{}, &mockSource{name: "docs", docs: ten})
	_, err := ix.Build(ctx)
	require.NoError(t, err)
	require.Len(t, index.added, 10)

	three := ten[:3]
	ix = NewIndexer(index, wholeDocSplitter{}, &mockSource{name: "docs", docs: three})
	stats, err := ix.Rebuild(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Chunks, "rebuild replaces, never merges")
	require.Len(t, index.rebuilt, 1)
	assert.Len(t, index.rebuilt[0], 3)
}

func TestIndexerBuild_IndexFailure(t *testing.T) {
	index := &mockIndex{addErr: errors.New("database locked")}
	src := &mockSource{name: "docs", docs: []domain.SourceDocument{{Source: "a.md", Text: "alpha"}}}
	ix := NewIndexer(index, wholeDocSplitter{}, src)

	_, err := ix.Build(context.Background())

	assert.Error(t, err)
}

func TestIndexerStatus_PersistsLastBuild(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "last_build")
	index := &mockIndex{}
	src := &mockSource{name: "docs", docs: []domain.SourceDocument{{Source: "a.md", Text: "alpha"}}}

	ix := NewIndexer(index, wholeDocSplitter{}, src)
	ix.SetStatePath(statePath)

	stats, err := ix.Build(context.Background())
	require.NoError(t, err)
	require.FileExists(t, statePath)

	// A fresh indexer over the same state file reads the timestamp back.
	again := NewIndexer(index, wholeDocSplitter{})
	again.SetStatePath(statePath)

	status, err := again.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Chunks)
	assert.WithinDuration(t, stats.LastBuild, status.LastBuild, time.Second)
}

func TestIndexerStatus_NoStateFile(t *testing.T) {
	ix := NewIndexer(&mockIndex{}, wholeDocSplitter{})
	ix.SetStatePath(filepath.Join(t.TempDir(), "missing"))

	status, err := ix.Status(context.Background())

	require.NoError(t, err)
	assert.True(t, status.LastBuild.IsZero())
	_, statErr := os.Stat(ix.statePath)
	assert.True(t, os.IsNotExist(statErr))
}
