package mcp

import (
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Turn handles full question turns. Required.
	Turn driving.TurnService

	// Router exposes the routing decision without answering. Optional.
	Router driving.RouterService

	// Index reports index status. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Turn == nil {
		return ErrMissingTurnService
	}
	// Router and Index are optional.
	return nil
}
