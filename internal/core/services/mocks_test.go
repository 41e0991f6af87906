package services

import (
	"context"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// chatCall records one Chat invocation.
type chatCall struct {
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

// mockChat implements driven.ChatService. Replies are consumed in
// order; when the queue runs dry the last reply repeats.
type mockChat struct {
	replies []string
	err     error
	calls   []chatCall
}

func (m *mockChat) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls = append(m.calls, chatCall{messages: messages, opts: opts})
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockChat) ModelName() string { return "mock-chat" }

func (m *mockChat) Ping(_ context.Context) error { return nil }

func (m *mockChat) Close() error { return nil }

// mockIndex implements driven.ChunkIndex.
type mockIndex struct {
	hits     []domain.RetrievedChunk
	queryErr error
	addErr   error

	added   []domain.Chunk
	rebuilt [][]domain.Chunk
	queries int
}

func (m *mockIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockIndex) Query(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.queries++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockIndex) Rebuild(_ context.Context, chunks []domain.Chunk) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.rebuilt = append(m.rebuilt, chunks)
	m.added = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *mockIndex) Count(_ context.Context) (int, error) {
	return len(m.added), nil
}

func (m *mockIndex) Close() error { return nil }

// mockContactLog implements driven.ContactLog.
type mockContactLog struct {
	appended  []domain.Contact
	appendErr error
}

func (m *mockContactLog) Append(_ context.Context, contact domain.Contact) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, contact)
	return nil
}

func (m *mockContactLog) List(_ context.Context) ([]domain.Contact, error) {
	return m.appended, nil
}

func (m *mockContactLog) Close() error { return nil }

// mockSource implements driven.DocumentSource.
type mockSource struct {
	name string
	docs []domain.SourceDocument
	err  error
}

func (m *mockSource) Load(_ context.Context) ([]domain.SourceDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func (m *mockSource) Name() string { return m.name }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}
