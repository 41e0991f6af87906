package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure GroundedAnswerer implements the interface.
var _ driving.AnswerService = (*GroundedAnswerer)(nil)

// Retrieval configuration constants.
const (
	// DefaultTopK is how many chunks ground an answer. Fixed, never
	// user-controlled.
	DefaultTopK = 5

	// DefaultMaxChunkChars bounds each chunk's contribution to the
	// prompt. Truncation is marked with an ellipsis.
	DefaultMaxChunkChars = 1500
)

// Fixed answers used when the model cannot be consulted or says nothing.
const (
	// NoInformationAnswer is returned when retrieval yields no grounding;
	// the model transport is never invoked in that case.
	NoInformationAnswer = "I could not find anything about that in the indexed documents."

	// EmptyModelAnswer substitutes an empty or whitespace-only model reply.
	EmptyModelAnswer = "I don't know based on the provided documents."
)

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerPrompt = `You are the campus retrieval assistant.
Answer ONLY with information explicitly present in the provided context.
Do NOT infer or assume details not stated in the context.
Be concise (one or two sentences).
Do NOT include inline citations, URLs, or a 'Source:' line in your answer.
The UI will add sources separately.`

// GroundedAnswerer turns a free-text question into a source-constrained
// answer using the chunk index and the model transport.
type GroundedAnswerer struct {
	index         driven.ChunkIndex
	chat          driven.ChatService
	promptStore   driven.PromptStore
	topK          int
	maxChunkChars int
}

// NewGroundedAnswerer creates an answerer over the given index and
// transport.
func NewGroundedAnswerer(index driven.ChunkIndex, chat driven.ChatService) *GroundedAnswerer {
	return &GroundedAnswerer{
		index:         index,
		chat:          chat,
		topK:          DefaultTopK,
		maxChunkChars: DefaultMaxChunkChars,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *GroundedAnswerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Answer retrieves grounding for the question and generates an answer.
// A transport failure surfaces as domain.ErrModelUnavailable: an answer
// without model output is meaningless, so it is never silently replaced
// by a default.
func (a *GroundedAnswerer) Answer(ctx context.Context, question string) (domain.Answer, error) {
	if a.index == nil {
		return domain.Answer{}, domain.ErrIndexUnavailable
	}
	if a.chat == nil {
		return domain.Answer{}, domain.ErrModelUnavailable
	}

	logger.Section("Grounded Answer")
	logger.Debug("Question: %q", question)

	hits, err := a.index.Query(ctx, question, a.topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("Retrieved %d chunks", len(hits))

	// No grounding available: fixed answer, no model call.
	if len(hits) == 0 {
		return domain.Answer{Text: NoInformationAnswer, Sources: []string{}}, nil
	}

	prompt := a.loadPrompt(driven.PromptAnswerSystem, defaultAnswerPrompt)
	reply, err := a.chat.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: prompt},
		{Role: driven.RoleUser, Content: fmt.Sprintf("Question: %s\n\nContext:\n%s", question, a.contextBlock(hits))},
	}, driven.ChatOptions{})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	text := strings.TrimSpace(reply)
	if text == "" {
		logger.Warn("Model returned empty answer, substituting fixed reply")
		text = EmptyModelAnswer
	}

	// Sources in retrieval order, not deduplicated here; the turn
	// controller owns deduplication.
	sources := make([]string, len(hits))
	for i, h := range hits {
		sources[i] = sourceTag(h.Chunk)
	}

	return domain.Answer{Text: text, Sources: sources}, nil
}

// contextBlock assembles the retrieved chunks into one prompt block,
// each tagged with its source, in retrieval rank order.
func (a *GroundedAnswerer) contextBlock(hits []domain.RetrievedChunk) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("[%s]\n%s", sourceTag(h.Chunk), a.trim(h.Chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}

// trim bounds a chunk's text to the per-chunk character budget,
// backing up to a rune boundary so the prompt stays valid UTF-8.
func (a *GroundedAnswerer) trim(text string) string {
	if len(text) <= a.maxChunkChars {
		return text
	}
	cut := a.maxChunkChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func (a *GroundedAnswerer) loadPrompt(name, fallback string) string {
	if a.promptStore == nil {
		return fallback
	}
	prompt, err := a.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

func sourceTag(c domain.Chunk) string {
	if c.Source == "" {
		return "unknown"
	}
	return c.Source
}
