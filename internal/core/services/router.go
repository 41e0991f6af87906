package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure IntentRouter implements the interface.
var _ driving.RouterService = (*IntentRouter)(nil)

// strongFormPhrases short-circuit the model entirely: when one matches,
// the utterance unambiguously asks for contact.
var strongFormPhrases = []string{
	"contact me",
	"call me",
	"reach me",
	"speak with",
	"speak to someone",
	"talk to someone",
	"my email is",
	"my phone",
	"my number",
	"contactez-moi",
	"me contacter",
	"me rappeler",
	"rappelez-moi",
	"mon email",
	"mon adresse mail",
	"mon numéro",
}

// weakFormPhrases only decide in the tier-3 fallback, and lose against
// an interrogative marker ("how do I contact admissions" is a factual
// question, not a contact request).
var weakFormPhrases = []string{
	"contact",
	"advisor",
	"adviser",
	"callback",
	"conseiller",
	"joindre",
	"recontact",
}

// interrogativeMarkers are matched as whole words of the utterance.
var interrogativeMarkers = map[string]struct{}{
	"how":      {},
	"what":     {},
	"who":      {},
	"when":     {},
	"where":    {},
	"why":      {},
	"which":    {},
	"comment":  {},
	"quel":     {},
	"quelle":   {},
	"quels":    {},
	"quelles":  {},
	"quand":    {},
	"pourquoi": {},
	"où":       {},
}

// defaultRouterPrompt is the fallback prompt when no PromptStore is configured.
const defaultRouterPrompt = `You are an intent classifier for a campus assistant.
Decide what the user wants:
- "retrieval": a factual question about the school, its programmes or policies, answered from documents
- "form": the user wants to be contacted or is providing personal contact details
Respond with ONLY a minimal JSON object, no prose: {"intent":"retrieval"} or {"intent":"form"}`

// IntentRouter classifies a single utterance into retrieval or form
// through a three-tier cascade: deterministic strong phrases, a
// model-backed classifier, and a weak-keyword fallback. Route never
// fails; tier-2 failures always resolve through tier 3.
type IntentRouter struct {
	chat        driven.ChatService
	promptStore driven.PromptStore
}

// NewIntentRouter creates a router. The chat service is optional; when
// nil, classification relies on the keyword tiers alone.
func NewIntentRouter(chat driven.ChatService) *IntentRouter {
	return &IntentRouter{chat: chat}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *IntentRouter) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// Route classifies the utterance. It is pure in tiers 1 and 3; only the
// model tier is nondeterministic, and its failure modes never escape.
func (r *IntentRouter) Route(ctx context.Context, utterance string) domain.RoutingDecision {
	lowered := strings.ToLower(utterance)

	// Tier 1: strong phrases are authoritative.
	if containsAny(lowered, strongFormPhrases) {
		logger.Debug("Router: strong form phrase matched")
		return domain.RoutingDecision{Intent: domain.IntentForm, Basis: domain.BasisKeyword}
	}

	// Tier 2: model-backed classification.
	if r.chat != nil {
		if intent, ok := r.classify(ctx, utterance); ok {
			logger.Debug("Router: model classified as %s", intent)
			return domain.RoutingDecision{Intent: intent, Basis: domain.BasisModel}
		}
	}

	// Tier 3: weak-keyword fallback.
	decision := r.fallback(lowered)
	logger.Debug("Router: fallback decided %s", decision.Intent)
	return decision
}

// classify asks the model for a closed JSON decision. Any transport,
// parse or validation failure reports ok=false.
func (r *IntentRouter) classify(ctx context.Context, utterance string) (domain.Intent, bool) {
	prompt := r.loadPrompt(driven.PromptRouterSystem, defaultRouterPrompt)

	reply, err := r.chat.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: prompt},
		{Role: driven.RoleUser, Content: utterance},
	}, driven.ChatOptions{MaxTokens: 64})
	if err != nil {
		logger.Warn("Router: classification call failed: %v", err)
		return "", false
	}

	obj, ok := extractJSONObject(reply)
	if !ok {
		logger.Warn("Router: no JSON object in classification reply")
		return "", false
	}

	var parsed struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		logger.Warn("Router: unparseable classification object: %v", err)
		return "", false
	}

	intent := domain.Intent(strings.ToLower(strings.TrimSpace(parsed.Intent)))
	if !intent.Valid() {
		logger.Warn("Router: invalid intent %q in classification reply", parsed.Intent)
		return "", false
	}
	return intent, true
}

// fallback applies the weak phrase list with the interrogative override.
func (r *IntentRouter) fallback(lowered string) domain.RoutingDecision {
	if containsAny(lowered, weakFormPhrases) && !containsInterrogative(lowered) {
		return domain.RoutingDecision{Intent: domain.IntentForm, Basis: domain.BasisFallback}
	}
	return domain.RoutingDecision{Intent: domain.IntentRetrieval, Basis: domain.BasisFallback}
}

func (r *IntentRouter) loadPrompt(name, fallback string) string {
	if r.promptStore == nil {
		return fallback
	}
	prompt, err := r.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// containsAny reports whether any phrase occurs as a substring.
func containsAny(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// containsInterrogative reports whether the utterance carries an
// interrogative marker as a whole word.
func containsInterrogative(lowered string) bool {
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !isWordRune(r)
	})
	for _, w := range words {
		if _, ok := interrogativeMarkers[w]; ok {
			return true
		}
	}
	// "est-ce que" splits on the hyphen, so match it as a phrase.
	return strings.Contains(lowered, "est-ce que")
}

func isWordRune(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	// accented letters in French markers
	return r > 127 && r != ' '
}

// extractJSONObject scans raw model output for the first well-formed
// brace-delimited JSON object. The model may wrap its answer in extra
// prose or code fences; extract-then-validate, never trust-then-use.
func extractJSONObject(raw string) (string, bool) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(raw); i++ {
			c := raw[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := raw[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					// malformed candidate: resume after this opener
					i = len(raw)
				}
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			return "", false
		}
		start = start + 1 + next
	}
	return "", false
}
