// Package migrations embeds the SQL schema migrations for the chunk
// index database.
package migrations

import "embed"

// FS holds every migration file, embedded at compile time so the
// binary carries its own schema.
//
//go:embed *.sql
var FS embed.FS
