package mcp

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

// mockTurnService is a mock implementation of driving.TurnService.
type mockTurnService struct {
	result     domain.TurnResult
	err        error
	transcript []domain.Message
	last       string
	mode       domain.Mode
	resets     int
}

func (m *mockTurnService) Handle(_ context.Context, utterance string, mode domain.Mode) (domain.TurnResult, error) {
	m.last = utterance
	m.mode = mode
	return m.result, m.err
}

func (m *mockTurnService) Transcript() []domain.Message {
	return m.transcript
}

func (m *mockTurnService) Reset() { m.resets++ }

// mockRouterService is a mock implementation of driving.RouterService.
type mockRouterService struct {
	decision domain.RoutingDecision
}

func (m *mockRouterService) Route(_ context.Context, _ string) domain.RoutingDecision {
	return m.decision
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats driving.IndexStats
	err   error
}

func (m *mockIndexService) Build(_ context.Context) (driving.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Rebuild(_ context.Context) (driving.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Status(_ context.Context) (driving.IndexStats, error) {
	return m.stats, m.err
}
