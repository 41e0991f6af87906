// Package file provides file-backed implementations of the storage
// ports.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure ContactLog implements the interface.
var _ driven.ContactLog = (*ContactLog)(nil)

// DefaultContactsFile is the log filename under the data directory.
const DefaultContactsFile = "contacts.jsonl"

// ContactLog persists contact records as one JSON object per line,
// append-only. Each line carries exactly the keys name, email and
// phone; a declined phone is an explicit null.
type ContactLog struct {
	mu   sync.Mutex
	path string
}

// NewContactLog creates a contact log at the given path. The parent
// directory is created if needed; the file itself appears on first
// append.
func NewContactLog(path string) (*ContactLog, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".askcampus", "data", DefaultContactsFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating contacts directory: %w", err)
	}
	return &ContactLog{path: path}, nil
}

// Path returns the log file path.
func (l *ContactLog) Path() string {
	return l.path
}

// Append adds one finalised record to the log.
func (l *ContactLog) Append(_ context.Context, contact domain.Contact) error {
	line, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open contacts log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append contact: %w", err)
	}
	return nil
}

// List returns all recorded contacts in append order. A line that does
// not parse is skipped, so one corrupted record never hides the rest.
func (l *ContactLog) List(_ context.Context) ([]domain.Contact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Contact{}, nil
		}
		return nil, fmt.Errorf("open contacts log: %w", err)
	}
	defer f.Close()

	var contacts []domain.Contact
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c domain.Contact
		if err := json.Unmarshal(line, &c); err != nil {
			logger.Warn("Skipping unparseable contact line: %v", err)
			continue
		}
		contacts = append(contacts, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read contacts log: %w", err)
	}
	return contacts, nil
}

// Close releases resources.
func (l *ContactLog) Close() error {
	return nil
}
