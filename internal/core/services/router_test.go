package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

func TestRoute_StrongPhraseSkipsModel(t *testing.T) {
	chat := &mockChat{err: errors.New("transport down")}
	router := NewIntentRouter(chat)

	decision := router.Route(context.Background(), "Please contact me about the MSc")

	assert.Equal(t, domain.IntentForm, decision.Intent)
	assert.Equal(t, domain.BasisKeyword, decision.Basis)
	assert.Empty(t, chat.calls, "strong phrase must not reach the model")
}

func TestRoute_StrongPhraseCaseInsensitive(t *testing.T) {
	router := NewIntentRouter(nil)

	decision := router.Route(context.Background(), "CALL ME back tomorrow")

	assert.Equal(t, domain.IntentForm, decision.Intent)
	assert.Equal(t, domain.BasisKeyword, decision.Basis)
}

func TestRoute_ModelClassification(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  domain.Intent
	}{
		{"bare object", `{"intent":"form"}`, domain.IntentForm},
		{"retrieval", `{"intent":"retrieval"}`, domain.IntentRetrieval},
		{"prose around object", `Sure! Here is my decision: {"intent":"form"} Hope that helps.`, domain.IntentForm},
		{"code fence", "```json\n{\"intent\":\"retrieval\"}\n```", domain.IntentRetrieval},
		{"mixed case intent", `{"intent":"Form"}`, domain.IntentForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mockChat{replies: []string{tt.reply}}
			router := NewIntentRouter(chat)

			decision := router.Route(context.Background(), "I would like some information")

			assert.Equal(t, tt.want, decision.Intent)
			assert.Equal(t, domain.BasisModel, decision.Basis)
		})
	}
}

func TestRoute_ModelTierCapsTokens(t *testing.T) {
	chat := &mockChat{replies: []string{`{"intent":"retrieval"}`}}
	router := NewIntentRouter(chat)

	router.Route(context.Background(), "what are the tuition fees")

	require.Len(t, chat.calls, 1)
	assert.Equal(t, 64, chat.calls[0].opts.MaxTokens)
}

func TestRoute_ModelFailureFallsThrough(t *testing.T) {
	tests := []struct {
		name string
		chat *mockChat
	}{
		{"transport error", &mockChat{err: errors.New("connection refused")}},
		{"no JSON at all", &mockChat{replies: []string{"I think the user wants information."}}},
		{"invalid intent value", &mockChat{replies: []string{`{"intent":"greeting"}`}}},
		{"malformed object", &mockChat{replies: []string{`{"intent": retrieval}`}}},
		{"empty reply", &mockChat{replies: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewIntentRouter(tt.chat)

			// "advisor" is a weak phrase, no interrogative in sight.
			decision := router.Route(context.Background(), "I need an advisor")

			assert.Equal(t, domain.IntentForm, decision.Intent)
			assert.Equal(t, domain.BasisFallback, decision.Basis)
		})
	}
}

func TestRoute_FallbackWeakPhrase(t *testing.T) {
	router := NewIntentRouter(nil)

	decision := router.Route(context.Background(), "advisor please")

	assert.Equal(t, domain.IntentForm, decision.Intent)
	assert.Equal(t, domain.BasisFallback, decision.Basis)
}

func TestRoute_InterrogativeOverridesWeakPhrase(t *testing.T) {
	tests := []string{
		"how do I contact the admissions office?",
		"who is the advisor for the engineering track?",
		"comment joindre le service des admissions ?",
		"est-ce que je peux recontacter le secrétariat ?",
	}

	for _, utterance := range tests {
		t.Run(utterance, func(t *testing.T) {
			router := NewIntentRouter(nil)

			decision := router.Route(context.Background(), utterance)

			assert.Equal(t, domain.IntentRetrieval, decision.Intent, "interrogative questions are factual")
			assert.Equal(t, domain.BasisFallback, decision.Basis)
		})
	}
}

func TestRoute_DefaultsToRetrieval(t *testing.T) {
	router := NewIntentRouter(nil)

	decision := router.Route(context.Background(), "tell me about the robotics club")

	assert.Equal(t, domain.IntentRetrieval, decision.Intent)
	assert.Equal(t, domain.BasisFallback, decision.Basis)
}

func TestRoute_EmptyUtterance(t *testing.T) {
	router := NewIntentRouter(nil)

	decision := router.Route(context.Background(), "")

	assert.Equal(t, domain.IntentRetrieval, decision.Intent)
}

func TestRoute_CustomPrompt(t *testing.T) {
	chat := &mockChat{replies: []string{`{"intent":"retrieval"}`}}
	router := NewIntentRouter(chat)
	router.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		"router_system": "custom classifier instructions",
	}})

	router.Route(context.Background(), "opening hours of the library")

	require.Len(t, chat.calls, 1)
	require.NotEmpty(t, chat.calls[0].messages)
	assert.Equal(t, "custom classifier instructions", chat.calls[0].messages[0].Content)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"leading prose", `result: {"a":1}`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote inside string", `{"a":"say \"hi\""}`, `{"a":"say \"hi\""}`, true},
		{"skips malformed first candidate", `{broken} then {"a":1}`, `{"a":1}`, true},
		{"no opener", "nothing here", "", false},
		{"unterminated", `{"a":1`, "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
