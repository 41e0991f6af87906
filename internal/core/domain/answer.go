package domain

import "time"

// Answer is a grounded answer with its supporting sources.
// Sources are in retrieval order and are NOT deduplicated here;
// deduplication is the turn controller's responsibility.
type Answer struct {
	// Text is the model's answer, or a fixed informational answer when
	// no grounding was available.
	Text string

	// Sources lists the provenance tags of all retrieved chunks,
	// in retrieval rank order.
	Sources []string
}

// TurnResult is what one handled utterance produces for the
// presentation layer.
type TurnResult struct {
	// Intent is the branch the turn was dispatched to.
	Intent Intent

	// Basis records the routing tier that decided, or is empty when the
	// caller pinned the mode and no routing took place.
	Basis RoutingBasis

	// Message is the rendered assistant reply, including the Sources
	// section for retrieval turns.
	Message string

	// Sources is the deduplicated source list for retrieval turns.
	Sources []string

	// Contact is set when a form turn finalised a contact record.
	Contact *Contact

	// Elapsed is how long the turn took end to end.
	Elapsed time.Duration
}
