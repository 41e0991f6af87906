package domain

// Chunk represents a unit of indexed text with its provenance tag.
// Chunks are immutable once indexed; a rebuild discards and replaces them.
type Chunk struct {
	// ID is the opaque unique identifier for the chunk.
	ID string

	// Text is the chunk content as handed over by the acquisition pipeline.
	Text string

	// Source is the provenance tag (file path, URL) shown to users.
	Source string
}

// SourceDocument is a (text, source-identifier) pair handed over by the
// acquisition pipeline, before chunking.
type SourceDocument struct {
	// Source is the provenance tag (file path, URL).
	Source string

	// Text is the full extracted text.
	Text string
}

// RetrievedChunk is a chunk paired with its position in one query's ranking.
// Results are ephemeral and scoped to a single query.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Rank is the zero-based position in the relevance ordering.
	Rank int

	// Similarity is the cosine similarity against the query (0-1).
	Similarity float64
}
