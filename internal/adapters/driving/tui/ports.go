package tui

import (
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

// Staleness reports whether the index is out of date with the
// documents on disk. The filesystem watcher implements it.
type Staleness interface {
	// Stale is true when documents changed since the last Ack.
	Stale() bool

	// Ack clears the stale flag.
	Ack()
}

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Turn handles visitor utterances. Required.
	Turn driving.TurnService

	// Index rebuilds the chunk index when documents go stale. Optional.
	Index driving.IndexService

	// Staleness signals document changes. Optional.
	Staleness Staleness
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Turn == nil {
		return ErrMissingTurnService
	}
	return nil
}
