// Package domain defines the core business entities for the campus assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Chunk: A unit of indexed text plus its provenance tag
//   - RetrievedChunk: A chunk with its similarity rank for one query
//   - RoutingDecision: The per-turn intent classification outcome
//   - Transcript: The append-only conversation history of a session
//   - Contact: A validated visitor contact record
//   - Answer: A grounded answer with its supporting sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the
// Go standard library and the struct validation library. All other
// packages depend on domain, never the reverse.
package domain
