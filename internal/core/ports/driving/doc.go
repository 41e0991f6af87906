// Package driving provides interfaces consumed by presentation
// adapters (primary/inbound ports): the CLI, the chat TUI and the MCP
// server drive the core through these.
package driving
