// Package gemini provides a chat service adapter using the Google
// Gemini API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds configuration for the Gemini chat service.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model is the chat model to use (default: gemini-2.5-flash).
	Model string
}

// ChatService provides chat completion using the Gemini API.
type ChatService struct {
	client *genai.Client
	model  string
}

// NewChatService creates a new Gemini chat service.
func NewChatService(ctx context.Context, cfg Config) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &ChatService{client: client, model: cfg.Model}, nil
}

// Chat conducts a synchronous conversation exchange. The system message
// becomes the system instruction; user and assistant turns map onto the
// Gemini user/model roles.
func (s *ChatService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		config.Temperature = &temp
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			config.SystemInstruction = genai.Text(msg.Content)[0]
		case driven.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	if len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		// An empty candidate list is not a transport failure.
		return "", nil
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable with a minimal generation.
func (s *ChatService) Ping(ctx context.Context) error {
	_, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text("ping"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	// The genai client holds no connections that need explicit cleanup.
	return nil
}
