package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// Ensure ContactDialogue implements the interface.
var _ driving.FormService = (*ContactDialogue)(nil)

// FormCompleteSentinel is the fixed marker the model emits when all
// fields are collected.
const FormCompleteSentinel = "FORM_COMPLETE"

// fieldsMarker prefixes the machine-readable line carrying the values
// confirmed so far.
const fieldsMarker = "FIELDS:"

// repromptMessage is returned when a completion was signalled but the
// record failed schema validation. The record is not persisted.
const repromptMessage = "Sorry, I could not record your details correctly. " +
	"Could you confirm your name and email address once more?"

// defaultFormPrompt is the fallback prompt when no PromptStore is
// configured. The %s placeholder names the current collection step.
const defaultFormPrompt = `You are the campus contact form assistant. Your job is to collect the visitor's name, email and phone number.
- Ask one question at a time, in the visitor's language.
- Confirm each value back to the visitor.
- The phone number is optional; the visitor may decline it.
- Validate email format; ask the visitor to correct it if invalid.
- You are currently collecting: %s.
- After your reply, on its own line, write FIELDS: followed by a JSON object holding the values confirmed so far, using only the keys name, email, phone. Use null for a declined phone. Omit keys not yet confirmed.
- When all fields are collected, say FORM_COMPLETE and present the summary as JSON with keys: name, email, phone.`

// stepDescriptions steers the prompt towards the pending field.
var stepDescriptions = map[domain.CollectionState]string{
	domain.StateAwaitingName:        "the visitor's name",
	domain.StateAwaitingEmail:       "the visitor's email address",
	domain.StateAwaitingPhoneOrSkip: "the visitor's phone number (optional, may be declined)",
	domain.StateComplete:            "nothing; all fields are collected, summarise and close",
}

// ContactDialogue conducts the turn-by-turn contact collection. The
// collection step is an explicit state machine transitioned from parsed
// model output plus the running record, not re-inferred from raw
// transcript text. The model's self-reported completion is always
// re-validated against the contact schema before it is persisted;
// malformed completions are rejected and re-prompted.
type ContactDialogue struct {
	chat        driven.ChatService
	contacts    driven.ContactLog
	promptStore driven.PromptStore

	record        domain.Contact
	phoneResolved bool
}

// NewContactDialogue creates a dialogue agent. The contact log is
// optional; when nil, finalised records are only reported, not stored.
func NewContactDialogue(chat driven.ChatService, contacts driven.ContactLog) *ContactDialogue {
	return &ContactDialogue{chat: chat, contacts: contacts}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (d *ContactDialogue) SetPromptStore(store driven.PromptStore) {
	d.promptStore = store
}

// State returns the current collection step.
func (d *ContactDialogue) State() domain.CollectionState {
	return domain.CollectionStateOf(d.record, d.phoneResolved)
}

// Reset discards the partial contact record.
func (d *ContactDialogue) Reset() {
	d.record = domain.Contact{}
	d.phoneResolved = false
}

// Next produces the next assistant utterance for the transcript.
// A transport failure surfaces as domain.ErrModelUnavailable.
func (d *ContactDialogue) Next(ctx context.Context, transcript *domain.Transcript) (driving.FormReply, error) {
	if d.chat == nil {
		return driving.FormReply{}, domain.ErrModelUnavailable
	}

	state := d.State()
	prompt := fmt.Sprintf(d.loadPrompt(driven.PromptFormSystem, defaultFormPrompt), stepDescriptions[state])

	reply, err := d.chat.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: prompt},
		{Role: driven.RoleUser, Content: transcript.Render()},
	}, driven.ChatOptions{})
	if err != nil {
		return driving.FormReply{}, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	d.mergeFields(reply)
	message := stripMachineLines(reply)

	out := driving.FormReply{Message: message}

	if strings.Contains(reply, FormCompleteSentinel) {
		if contact, ok := d.finalize(ctx, reply); ok {
			out.Completed = true
			out.Contact = contact
			if strings.TrimSpace(out.Message) == "" {
				out.Message = fmt.Sprintf("Thank you %s, your details have been recorded. Someone will reach out to %s.",
					contact.Name, contact.Email)
			}
		} else {
			// Completion rejected: re-prompt instead of persisting a
			// malformed record.
			out.Message = repromptMessage
		}
	}

	out.State = d.State()
	return out, nil
}

// parsedFields distinguishes an explicit null (phone declined) from an
// absent key.
type parsedFields struct {
	name          *string
	email         *string
	phone         *string
	phoneDeclined bool
}

// mergeFields parses the FIELDS line, validates each value against the
// contact schema and merges only the valid ones into the record.
// Invalid values are dropped so the state keeps steering a correction.
func (d *ContactDialogue) mergeFields(reply string) {
	fields, ok := extractFields(reply)
	if !ok {
		return
	}

	if fields.name != nil {
		candidate := domain.Contact{Name: strings.TrimSpace(*fields.name)}
		if candidate.HasValidName() {
			d.record.Name = candidate.Name
		}
	}
	if fields.email != nil {
		candidate := domain.Contact{Email: strings.TrimSpace(*fields.email)}
		if candidate.HasValidEmail() {
			d.record.Email = candidate.Email
		} else {
			logger.Debug("Form: dropping invalid email %q", *fields.email)
		}
	}
	switch {
	case fields.phoneDeclined:
		d.record.Phone = nil
		d.phoneResolved = true
	case fields.phone != nil:
		phone := strings.TrimSpace(*fields.phone)
		candidate := domain.Contact{Phone: &phone}
		if candidate.HasValidPhone() {
			d.record.Phone = &phone
			d.phoneResolved = true
		} else {
			logger.Debug("Form: dropping invalid phone %q", *fields.phone)
		}
	}
}

// finalize hard-validates the completion against the schema and appends
// it to the contact log. The model's summary JSON is merged first so a
// well-formed completion can still repair a missed FIELDS line.
func (d *ContactDialogue) finalize(ctx context.Context, reply string) (*domain.Contact, bool) {
	// The summary JSON follows the sentinel.
	tail := reply
	if idx := strings.Index(reply, FormCompleteSentinel); idx >= 0 {
		tail = reply[idx:]
	}
	if obj, ok := extractJSONObject(tail); ok {
		var summary domain.Contact
		if err := json.Unmarshal([]byte(obj), &summary); err == nil {
			d.mergeSummary(summary)
		}
	}

	record := d.record
	if err := record.Validate(); err != nil {
		logger.Warn("Form: completion rejected: %v", err)
		return nil, false
	}

	if d.contacts != nil {
		if err := d.contacts.Append(ctx, record); err != nil {
			logger.Warn("Form: failed to persist contact: %v", err)
			return nil, false
		}
	}

	d.phoneResolved = true
	logger.Info("Form: contact recorded for %s", record.Email)
	return &record, true
}

// mergeSummary folds a completion summary into the record, keeping only
// schema-valid values.
func (d *ContactDialogue) mergeSummary(summary domain.Contact) {
	if d.record.Name == "" && summary.HasValidName() {
		d.record.Name = strings.TrimSpace(summary.Name)
	}
	if d.record.Email == "" && summary.HasValidEmail() {
		d.record.Email = strings.TrimSpace(summary.Email)
	}
	if d.record.Phone == nil && summary.HasValidPhone() {
		phone := strings.TrimSpace(*summary.Phone)
		d.record.Phone = &phone
		d.phoneResolved = true
	}
}

// extractFields parses the machine-readable FIELDS line defensively.
func extractFields(reply string) (parsedFields, bool) {
	var out parsedFields

	idx := strings.Index(reply, fieldsMarker)
	if idx < 0 {
		return out, false
	}

	obj, ok := extractJSONObject(reply[idx+len(fieldsMarker):])
	if !ok {
		return out, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return out, false
	}

	if v, ok := raw["name"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			out.name = &s
		}
	}
	if v, ok := raw["email"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			out.email = &s
		}
	}
	if v, ok := raw["phone"]; ok {
		if string(v) == "null" {
			out.phoneDeclined = true
		} else {
			var s string
			if json.Unmarshal(v, &s) == nil {
				out.phone = &s
			}
		}
	}
	return out, true
}

// stripMachineLines removes the FIELDS line and everything from the
// completion sentinel onward from the visitor-visible message.
func stripMachineLines(reply string) string {
	if idx := strings.Index(reply, FormCompleteSentinel); idx >= 0 {
		reply = reply[:idx]
	}

	var kept []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fieldsMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func (d *ContactDialogue) loadPrompt(name, fallback string) string {
	if d.promptStore == nil {
		return fallback
	}
	prompt, err := d.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
