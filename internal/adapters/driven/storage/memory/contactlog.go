package memory

import (
	"context"
	"sync"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
)

// Ensure ContactLog implements the interface.
var _ driven.ContactLog = (*ContactLog)(nil)

// ContactLog is an in-memory implementation of driven.ContactLog.
type ContactLog struct {
	mu       sync.RWMutex
	contacts []domain.Contact
}

// NewContactLog creates a new in-memory contact log.
func NewContactLog() *ContactLog {
	return &ContactLog{}
}

// Append adds one finalised record to the log.
func (l *ContactLog) Append(_ context.Context, contact domain.Contact) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contacts = append(l.contacts, contact)
	return nil
}

// List returns all recorded contacts in append order.
func (l *ContactLog) List(_ context.Context) ([]domain.Contact, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Contact, len(l.contacts))
	copy(out, l.contacts)
	return out, nil
}

// Close releases resources.
func (l *ContactLog) Close() error {
	return nil
}
