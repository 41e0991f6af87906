package domain

// Intent classifies what a single user utterance asks for.
type Intent string

const (
	// IntentRetrieval means the utterance is a factual question answered
	// from the document index.
	IntentRetrieval Intent = "retrieval"

	// IntentForm means the utterance asks to be contacted or provides
	// personal details for the contact form dialogue.
	IntentForm Intent = "form"
)

// Valid reports whether the intent is one of the two known values.
func (i Intent) Valid() bool {
	return i == IntentRetrieval || i == IntentForm
}

// RoutingBasis records which tier of the router produced a decision.
type RoutingBasis string

const (
	// BasisKeyword means a strong phrase matched; the model was never called.
	BasisKeyword RoutingBasis = "keyword"

	// BasisModel means the model classified the utterance.
	BasisModel RoutingBasis = "model"

	// BasisFallback means the weak-keyword fallback decided.
	BasisFallback RoutingBasis = "fallback"
)

// RoutingDecision is the outcome of classifying one utterance.
// It is ephemeral, produced once per turn.
type RoutingDecision struct {
	// Intent is the classified intent.
	Intent Intent

	// Basis records which tier decided.
	Basis RoutingBasis
}

// Mode pins or frees the turn controller's dispatch.
type Mode string

const (
	// ModeAuto routes each utterance through the intent router.
	ModeAuto Mode = "auto"

	// ModeRetrieval forces the grounded answering branch.
	ModeRetrieval Mode = "retrieval"

	// ModeForm forces the contact dialogue branch.
	ModeForm Mode = "form"
)

// Valid reports whether the mode is one of the three known values.
func (m Mode) Valid() bool {
	return m == ModeAuto || m == ModeRetrieval || m == ModeForm
}
