package driven

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// ContactLog is the append-only persistence for finalised contact
// records. Each record is serialised as a JSON object with exactly the
// keys name, email and phone (phone null when absent).
type ContactLog interface {
	// Append adds one finalised record to the log.
	Append(ctx context.Context, contact domain.Contact) error

	// List returns all recorded contacts in append order.
	List(ctx context.Context) ([]domain.Contact, error)

	// Close releases resources.
	Close() error
}
