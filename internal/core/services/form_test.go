package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

func formTranscript(utterance string) *domain.Transcript {
	var tr domain.Transcript
	tr.Append(domain.RoleUser, utterance)
	return &tr
}

func TestFormNext_StartsAwaitingName(t *testing.T) {
	chat := &mockChat{replies: []string{"Happy to help! What is your name?"}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	reply, err := dialogue.Next(context.Background(), formTranscript("I want to be contacted"))

	require.NoError(t, err)
	assert.Equal(t, "Happy to help! What is your name?", reply.Message)
	assert.Equal(t, domain.StateAwaitingName, reply.State)
	assert.False(t, reply.Completed)
}

func TestFormNext_PromptNamesCurrentStep(t *testing.T) {
	chat := &mockChat{replies: []string{"What is your name?"}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	_, err := dialogue.Next(context.Background(), formTranscript("contact please"))

	require.NoError(t, err)
	require.Len(t, chat.calls, 1)
	assert.Contains(t, chat.calls[0].messages[0].Content, "the visitor's name")
}

func TestFormNext_FieldsLineAdvancesState(t *testing.T) {
	chat := &mockChat{replies: []string{
		"Thanks Alice! What is your email address?\nFIELDS: {\"name\":\"Alice Martin\"}",
	}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	reply, err := dialogue.Next(context.Background(), formTranscript("My name is Alice Martin"))

	require.NoError(t, err)
	assert.Equal(t, "Thanks Alice! What is your email address?", reply.Message, "machine line is stripped")
	assert.Equal(t, domain.StateAwaitingEmail, reply.State)
}

func TestFormNext_InvalidEmailNotMerged(t *testing.T) {
	chat := &mockChat{replies: []string{
		"That email looks off, could you check it?\nFIELDS: {\"name\":\"Alice Martin\",\"email\":\"not-an-email\"}",
	}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	reply, err := dialogue.Next(context.Background(), formTranscript("my email is not-an-email"))

	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingEmail, reply.State, "invalid email keeps the step pending")
}

func TestFormNext_DeclinedPhoneCompletesCollection(t *testing.T) {
	chat := &mockChat{replies: []string{
		"Noted, no phone.\nFIELDS: {\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":null}",
	}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	reply, err := dialogue.Next(context.Background(), formTranscript("no phone please"))

	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, reply.State)
}

func TestFormNext_CompletionPersistsContact(t *testing.T) {
	log := &mockContactLog{}
	chat := &mockChat{replies: []string{
		"All set!\nFIELDS: {\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":\"+33 6 12 34 56 78\"}\n" +
			"FORM_COMPLETE\n{\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":\"+33 6 12 34 56 78\"}",
	}}
	dialogue := NewContactDialogue(chat, log)

	reply, err := dialogue.Next(context.Background(), formTranscript("+33 6 12 34 56 78"))

	require.NoError(t, err)
	assert.True(t, reply.Completed)
	require.NotNil(t, reply.Contact)
	assert.Equal(t, "Alice Martin", reply.Contact.Name)
	assert.Equal(t, "alice@example.com", reply.Contact.Email)
	require.NotNil(t, reply.Contact.Phone)
	assert.Equal(t, "+33 6 12 34 56 78", *reply.Contact.Phone)
	assert.Equal(t, "All set!", reply.Message)

	require.Len(t, log.appended, 1)
	assert.Equal(t, "alice@example.com", log.appended[0].Email)
}

func TestFormNext_CompletionWithoutPhone(t *testing.T) {
	log := &mockContactLog{}
	chat := &mockChat{replies: []string{
		"FORM_COMPLETE\n{\"name\":\"Bob Stone\",\"email\":\"bob@example.com\",\"phone\":null}",
	}}
	dialogue := NewContactDialogue(chat, log)

	reply, err := dialogue.Next(context.Background(), formTranscript("no phone, thanks"))

	require.NoError(t, err)
	assert.True(t, reply.Completed)
	require.NotNil(t, reply.Contact)
	assert.Nil(t, reply.Contact.Phone)
	assert.NotEmpty(t, reply.Message, "a stripped-bare completion still gets a closing message")
	require.Len(t, log.appended, 1)
}

func TestFormNext_MalformedCompletionRejected(t *testing.T) {
	log := &mockContactLog{}
	chat := &mockChat{replies: []string{
		// Sentinel emitted but the record never collected a valid email.
		"FORM_COMPLETE\n{\"name\":\"Alice Martin\",\"email\":\"not-an-email\"}",
	}}
	dialogue := NewContactDialogue(chat, log)

	reply, err := dialogue.Next(context.Background(), formTranscript("done"))

	require.NoError(t, err, "a rejected completion is a re-prompt, not an error")
	assert.False(t, reply.Completed)
	assert.Nil(t, reply.Contact)
	assert.Equal(t, repromptMessage, reply.Message)
	assert.Empty(t, log.appended, "nothing is persisted for a rejected completion")
}

func TestFormNext_SentinelJSONRepairsMissedFields(t *testing.T) {
	log := &mockContactLog{}
	chat := &mockChat{replies: []string{
		// No FIELDS lines at all during the dialogue; the summary
		// alone carries the record.
		"FORM_COMPLETE {\"name\":\"Carol Finch\",\"email\":\"carol@example.com\",\"phone\":\"0612345678\"}",
	}}
	dialogue := NewContactDialogue(chat, log)

	reply, err := dialogue.Next(context.Background(), formTranscript("that is everything"))

	require.NoError(t, err)
	assert.True(t, reply.Completed)
	require.Len(t, log.appended, 1)
	assert.Equal(t, "Carol Finch", log.appended[0].Name)
}

func TestFormNext_PersistFailureRejectsCompletion(t *testing.T) {
	log := &mockContactLog{appendErr: errors.New("disk full")}
	chat := &mockChat{replies: []string{
		"FORM_COMPLETE\n{\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":null}",
	}}
	dialogue := NewContactDialogue(chat, log)

	reply, err := dialogue.Next(context.Background(), formTranscript("done"))

	require.NoError(t, err)
	assert.False(t, reply.Completed)
	assert.Equal(t, repromptMessage, reply.Message)
}

func TestFormNext_TransportFailure(t *testing.T) {
	dialogue := NewContactDialogue(&mockChat{err: errors.New("connection refused")}, &mockContactLog{})

	_, err := dialogue.Next(context.Background(), formTranscript("contact me"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestFormNext_NilChat(t *testing.T) {
	dialogue := NewContactDialogue(nil, &mockContactLog{})

	_, err := dialogue.Next(context.Background(), formTranscript("contact me"))

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestForm_StateProgression(t *testing.T) {
	chat := &mockChat{replies: []string{
		"What is your name?",
		"Thanks! Your email?\nFIELDS: {\"name\":\"Alice Martin\"}",
		"And a phone number, or say skip.\nFIELDS: {\"name\":\"Alice Martin\",\"email\":\"alice@example.com\"}",
		"All done!\nFIELDS: {\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":null}\n" +
			"FORM_COMPLETE\n{\"name\":\"Alice Martin\",\"email\":\"alice@example.com\",\"phone\":null}",
	}}
	log := &mockContactLog{}
	dialogue := NewContactDialogue(chat, log)

	var tr domain.Transcript
	ctx := context.Background()

	steps := []struct {
		utterance string
		wantState domain.CollectionState
	}{
		{"I want to be contacted", domain.StateAwaitingName},
		{"Alice Martin", domain.StateAwaitingEmail},
		{"alice@example.com", domain.StateAwaitingPhoneOrSkip},
		{"skip", domain.StateComplete},
	}

	for _, step := range steps {
		tr.Append(domain.RoleUser, step.utterance)
		reply, err := dialogue.Next(ctx, &tr)
		require.NoError(t, err)
		assert.Equal(t, step.wantState, reply.State, "after %q", step.utterance)
		tr.Append(domain.RoleAssistant, reply.Message)
	}

	require.Len(t, log.appended, 1)
	assert.Nil(t, log.appended[0].Phone)
}

func TestForm_Reset(t *testing.T) {
	chat := &mockChat{replies: []string{"ok\nFIELDS: {\"name\":\"Alice Martin\"}"}}
	dialogue := NewContactDialogue(chat, &mockContactLog{})

	_, err := dialogue.Next(context.Background(), formTranscript("Alice Martin"))
	require.NoError(t, err)
	require.Equal(t, domain.StateAwaitingEmail, dialogue.State())

	dialogue.Reset()

	assert.Equal(t, domain.StateAwaitingName, dialogue.State())
}
