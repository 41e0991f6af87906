package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the
// binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt is
	// required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptRouterSystem is the closed-instruction classification prompt
	// for the intent router's model tier. No format placeholders.
	PromptRouterSystem = "router_system"

	// PromptAnswerSystem is the grounding instruction for the retrieval
	// answerer. No format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptFormSystem is the contact dialogue instruction. The template
	// expects a %s placeholder for the current collection step.
	PromptFormSystem = "form_system"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. If no store is injected, services use hardcoded
// defaults.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts.
	SetPromptStore(store PromptStore)
}
