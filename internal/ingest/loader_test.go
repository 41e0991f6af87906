package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, rel, text string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
}

func TestFSLoader_WalksDirectory(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "handbook.md", "## Handbook")
	writeDoc(t, root, "sub/fees.txt", "Tuition fees")
	writeDoc(t, root, "image.png", "not text")

	loader := NewFSLoader(root)
	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2, "only .md and .txt files are loaded")

	bySource := make(map[string]string)
	for _, d := range docs {
		bySource[d.Source] = d.Text
	}
	assert.Equal(t, "## Handbook", bySource["handbook.md"])
	assert.Equal(t, "Tuition fees", bySource["sub/fees.txt"], "sources use forward slashes")
}

func TestFSLoader_MissingRoot(t *testing.T) {
	loader := NewFSLoader(filepath.Join(t.TempDir(), "nope"))

	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFSLoader_ExtensionCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "NOTES.MD", "upper case extension")

	docs, err := NewFSLoader(root).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "NOTES.MD", docs[0].Source)
}

func TestFSLoader_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFSLoader(root).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFSLoader_Name(t *testing.T) {
	assert.Equal(t, "fs:/docs", NewFSLoader("/docs").Name())
}
