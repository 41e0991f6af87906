// Package tui provides the full-screen chat interface for askcampus.
// It follows the Elm architecture via Bubbletea.
package tui

import "errors"

// ErrMissingTurnService is returned when the turn service is not provided.
var ErrMissingTurnService = errors.New("tui: turn service is required")
