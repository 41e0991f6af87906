package driven

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// DocumentSource produces (text, source-identifier) pairs for indexing.
// The acquisition pipeline (filesystem walk, web crawl) lives behind
// this port; the core never fetches or parses raw documents itself.
type DocumentSource interface {
	// Load returns all documents the source currently provides.
	Load(ctx context.Context) ([]domain.SourceDocument, error)

	// Name identifies the source for logging.
	Name() string
}
