package domain

import "strings"

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleUser marks a message typed by the visitor.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	// Role is who said it.
	Role Role

	// Text is what was said.
	Text string
}

// Transcript is the ordered, append-only conversation history of one
// session. It grows monotonically until Reset. Transcript is not safe
// for concurrent use; the owning session serialises access.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(role Role, text string) {
	t.messages = append(t.messages, Message{Role: role, Text: text})
}

// Messages returns a copy of the transcript so callers cannot mutate history.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Reset discards all messages.
func (t *Transcript) Reset() {
	t.messages = nil
}

// Render flattens the transcript into the "User: ... / Assistant: ..."
// form handed to the model by the contact dialogue.
func (t *Transcript) Render() string {
	var b strings.Builder
	for _, m := range t.messages {
		switch m.Role {
		case RoleUser:
			b.WriteString("User: ")
		case RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
