package cli

import (
	"bytes"
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

// --- Mock implementations ---

type stubTurn struct {
	result domain.TurnResult
	err    error
	last   string
	mode   domain.Mode
	resets int
}

func (s *stubTurn) Handle(_ context.Context, utterance string, mode domain.Mode) (domain.TurnResult, error) {
	s.last = utterance
	s.mode = mode
	return s.result, s.err
}

func (s *stubTurn) Transcript() []domain.Message { return nil }

func (s *stubTurn) Reset() { s.resets++ }

type stubRouter struct {
	decision domain.RoutingDecision
}

func (s *stubRouter) Route(_ context.Context, _ string) domain.RoutingDecision {
	return s.decision
}

type stubIndex struct {
	stats driving.IndexStats
	err   error
}

func (s *stubIndex) Build(_ context.Context) (driving.IndexStats, error)   { return s.stats, s.err }
func (s *stubIndex) Rebuild(_ context.Context) (driving.IndexStats, error) { return s.stats, s.err }
func (s *stubIndex) Status(_ context.Context) (driving.IndexStats, error)  { return s.stats, s.err }

type stubContactLog struct {
	contacts []domain.Contact
	err      error
}

func (s *stubContactLog) Append(_ context.Context, _ domain.Contact) error { return nil }

func (s *stubContactLog) List(_ context.Context) ([]domain.Contact, error) {
	return s.contacts, s.err
}

func (s *stubContactLog) Close() error { return nil }

// setupTestServices installs stub services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldTurn := turnService
	oldRouter := routerService
	oldIndex := indexService
	oldContacts := contactLog

	turnService = &stubTurn{result: domain.TurnResult{Message: "stub answer"}}
	routerService = &stubRouter{decision: domain.RoutingDecision{
		Intent: domain.IntentRetrieval,
		Basis:  domain.BasisModel,
	}}
	indexService = &stubIndex{}
	contactLog = &stubContactLog{}

	return func() {
		turnService = oldTurn
		routerService = oldRouter
		indexService = oldIndex
		contactLog = oldContacts
	}
}

// executeCommand runs the root command with the given args and captures
// its combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
