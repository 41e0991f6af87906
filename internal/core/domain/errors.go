package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable indicates the model transport failed.
	// Answers and form turns need real model output; callers render a
	// visible failure instead of substituting a default.
	ErrModelUnavailable = errors.New("model transport unavailable")

	// ErrIndexUnavailable indicates the chunk index is not configured.
	ErrIndexUnavailable = errors.New("chunk index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
