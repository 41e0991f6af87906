package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure TurnController implements the interface.
var _ driving.TurnService = (*TurnController)(nil)

// maxRenderedSources caps the Sources section appended to retrieval
// answers.
const maxRenderedSources = 3

// turnFailureMessage is rendered in place of an answer when a turn
// fails; the session never crashes and the transcript stays consistent.
const turnFailureMessage = "Sorry, something went wrong while handling that message. Please try again."

// TurnController is the composition root for one conversation session.
// It routes each utterance (unless the caller pins a mode), dispatches
// to the grounded answerer or the contact dialogue, post-processes the
// result and maintains the session transcript. Each session owns its
// own TurnController; turns within a session run strictly sequentially.
type TurnController struct {
	router   driving.RouterService
	answerer driving.AnswerService
	form     driving.FormService

	mu         sync.Mutex
	transcript domain.Transcript
}

// NewTurnController creates a session controller.
func NewTurnController(router driving.RouterService, answerer driving.AnswerService, form driving.FormService) *TurnController {
	return &TurnController{router: router, answerer: answerer, form: form}
}

// Handle processes one utterance end to end. Even on error the returned
// TurnResult carries a renderable message, and both the user utterance
// and the (possibly failing) assistant reply are appended to the
// transcript.
func (c *TurnController) Handle(ctx context.Context, utterance string, mode domain.Mode) (domain.TurnResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	res := domain.TurnResult{}

	if mode == "" {
		mode = domain.ModeAuto
	}
	c.transcript.Append(domain.RoleUser, utterance)

	if !mode.Valid() {
		res.Message = turnFailureMessage
		c.transcript.Append(domain.RoleAssistant, res.Message)
		res.Elapsed = time.Since(start)
		return res, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, mode)
	}

	switch mode {
	case domain.ModeRetrieval:
		res.Intent = domain.IntentRetrieval
	case domain.ModeForm:
		res.Intent = domain.IntentForm
	default:
		decision := c.router.Route(ctx, utterance)
		res.Intent = decision.Intent
		res.Basis = decision.Basis
	}
	logger.Debug("Turn: intent=%s basis=%s mode=%s", res.Intent, res.Basis, mode)

	var err error
	if res.Intent == domain.IntentForm {
		err = c.handleForm(ctx, &res)
	} else {
		err = c.handleRetrieval(ctx, utterance, &res)
	}
	if err != nil {
		res.Message = turnFailureMessage
	}

	c.transcript.Append(domain.RoleAssistant, res.Message)
	res.Elapsed = time.Since(start)
	logger.Info("Turn handled in %s", res.Elapsed.Round(time.Millisecond))
	return res, err
}

// handleRetrieval answers the question and post-processes the result:
// citation lines are stripped, sources deduplicated in first-appearance
// order and a Sources section appended.
func (c *TurnController) handleRetrieval(ctx context.Context, utterance string, res *domain.TurnResult) error {
	if c.answerer == nil {
		return domain.ErrIndexUnavailable
	}

	answer, err := c.answerer.Answer(ctx, utterance)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	message := sanitizeAnswer(answer.Text)
	sources := dedupeSources(answer.Sources)
	if len(sources) > maxRenderedSources {
		sources = sources[:maxRenderedSources]
	}
	if len(sources) > 0 {
		message += "\n\nSources:\n- " + strings.Join(sources, "\n- ")
	}

	res.Message = message
	res.Sources = sources
	return nil
}

// handleForm advances the contact dialogue by one turn.
func (c *TurnController) handleForm(ctx context.Context, res *domain.TurnResult) error {
	if c.form == nil {
		return domain.ErrModelUnavailable
	}

	reply, err := c.form.Next(ctx, &c.transcript)
	if err != nil {
		return fmt.Errorf("form turn: %w", err)
	}

	res.Message = reply.Message
	res.Contact = reply.Contact
	return nil
}

// Transcript returns a copy of the session's conversation so far.
func (c *TurnController) Transcript() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// Reset discards the transcript and any partial contact record.
func (c *TurnController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript.Reset()
	if c.form != nil {
		c.form.Reset()
	}
}

// sanitizeAnswer strips any line the model emitted in violation of the
// no-citation instruction.
func sanitizeAnswer(text string) string {
	if text == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(l, "source:") || strings.HasPrefix(l, "sources:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// dedupeSources removes duplicates preserving first-appearance order.
func dedupeSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
