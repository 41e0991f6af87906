package driven

import "context"

// Message roles understood by every chat transport.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatService is the model transport: it sends a structured conversation
// and returns generated text. The call may block for a long time and may
// legally return an empty string when the provider generates nothing.
//
// Implementations may include:
//   - Ollama (local models)
//   - Gemini (Google AI API)
type ChatService interface {
	// Chat conducts a synchronous conversation exchange.
	// A transport failure is returned as an error; empty output is not
	// an error.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	// Zero means no cap; transports must tolerate both.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
