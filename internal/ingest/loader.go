package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure FSLoader implements the interface.
var _ driven.DocumentSource = (*FSLoader)(nil)

// textExtensions are the file types the loader picks up.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// FSLoader walks a directory and yields one document per text file.
// The source identifier is the path relative to the root, so it stays
// stable across machines.
type FSLoader struct {
	root string
}

// NewFSLoader creates a loader over the given directory.
func NewFSLoader(root string) *FSLoader {
	return &FSLoader{root: root}
}

// Name identifies the source for logging.
func (l *FSLoader) Name() string {
	return "fs:" + l.root
}

// Load reads every .txt and .md file under the root. A missing root
// yields no documents rather than an error, so a fresh installation
// indexes cleanly.
func (l *FSLoader) Load(ctx context.Context) ([]domain.SourceDocument, error) {
	if _, err := os.Stat(l.root); os.IsNotExist(err) {
		logger.Warn("Documents directory %s does not exist", l.root)
		return nil, nil
	}

	var docs []domain.SourceDocument
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, domain.SourceDocument{
			Source: filepath.ToSlash(rel),
			Text:   string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.root, err)
	}

	logger.Debug("Loaded %d documents from %s", len(docs), l.root)
	return docs, nil
}
