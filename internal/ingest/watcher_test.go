package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitStale(t *testing.T, w *Watcher) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Stale() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcher_FlagsTextFileChanges(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.Stale(), "fresh watcher starts clean")

	require.NoError(t, os.WriteFile(filepath.Join(root, "handbook.md"), []byte("new"), 0644))
	assert.True(t, waitStale(t, w), "writing a document marks the index stale")

	w.Ack()
	assert.False(t, w.Stale())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.png"), []byte{0x89}, 0644))

	time.Sleep(200 * time.Millisecond)
	assert.False(t, w.Stale(), "non-text files never flag the index")
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, isTextFile("/docs/a.md"))
	assert.True(t, isTextFile("/docs/A.TXT"))
	assert.False(t, isTextFile("/docs/a.pdf"))
	assert.False(t, isTextFile("/docs/readme"))
}
