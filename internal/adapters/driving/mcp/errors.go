// Package mcp provides an MCP (Model Context Protocol) server adapter
// for askcampus. It lets AI assistants ask the campus assistant
// questions and inspect the index over JSON-RPC.
package mcp

import "errors"

// ErrMissingTurnService is returned when the turn service is not provided.
var ErrMissingTurnService = errors.New("mcp: turn service is required")
