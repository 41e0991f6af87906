// Package sqlite provides the durable chunk index on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Chunk rows and
// their embeddings persist in the database; similarity queries run over
// an immutable in-memory snapshot that is atomically swapped after each
// write, so a rebuild never exposes partial state.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.askcampus/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Writers are serialised by a mutex;
// readers never block on writers.
package sqlite
