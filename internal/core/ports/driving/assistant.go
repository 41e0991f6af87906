package driving

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// TurnService handles one utterance end to end: routing (unless the
// mode is pinned), dispatch and post-processing. One session processes
// utterances strictly sequentially.
type TurnService interface {
	// Handle routes and answers a single utterance. Even when it
	// returns an error, the TurnResult carries a renderable message and
	// the transcript stays consistent.
	Handle(ctx context.Context, utterance string, mode domain.Mode) (domain.TurnResult, error)

	// Transcript returns a copy of the session's conversation so far.
	Transcript() []domain.Message

	// Reset discards the session's transcript and any partial contact
	// record.
	Reset()
}

// RouterService classifies a single utterance.
type RouterService interface {
	// Route always resolves to a valid decision; tier failures fall
	// through internally and are never surfaced.
	Route(ctx context.Context, utterance string) domain.RoutingDecision
}

// AnswerService produces grounded answers from the chunk index.
type AnswerService interface {
	// Answer retrieves context for the question and generates a
	// source-constrained reply.
	Answer(ctx context.Context, question string) (domain.Answer, error)
}

// FormReply is one contact dialogue step.
type FormReply struct {
	// Message is the next assistant utterance.
	Message string

	// State is the collection step after this turn.
	State domain.CollectionState

	// Completed is true when a valid record was finalised this turn.
	Completed bool

	// Contact is the finalised record when Completed is true.
	Contact *domain.Contact
}

// FormService conducts the contact collection dialogue.
type FormService interface {
	// Next produces the next assistant utterance for the transcript.
	Next(ctx context.Context, transcript *domain.Transcript) (FormReply, error)

	// Reset discards the partial contact record.
	Reset()
}
