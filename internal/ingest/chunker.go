package ingest

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits document text into fixed-size overlapping windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room to advance.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Split cuts the document into chunks. Window boundaries back up to
// rune starts so no chunk ever carries a torn UTF-8 sequence. Every
// chunk inherits the document's source identifier.
func (c *Chunker) Split(doc domain.SourceDocument) []domain.Chunk {
	text := doc.Text
	if text == "" {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, len(text)/step+1)

	start := 0
	for start < len(text) {
		end := runeBoundary(text, start+c.chunkSize)
		chunks = append(chunks, domain.Chunk{
			ID:     uuid.New().String(),
			Text:   text[start:end],
			Source: doc.Source,
		})
		if end == len(text) {
			break
		}
		start = runeBoundary(text, start+step)
	}
	return chunks
}

// runeBoundary clamps pos to the text length and backs it up to the
// start of a rune.
func runeBoundary(text string, pos int) int {
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
