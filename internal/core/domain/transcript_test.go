package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_AppendAndRender(t *testing.T) {
	var tr Transcript
	tr.Append(RoleUser, "What are the tuition fees?")
	tr.Append(RoleAssistant, "Tuition is 9000 EUR per year.")

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t,
		"User: What are the tuition fees?\nAssistant: Tuition is 9000 EUR per year.",
		tr.Render())
}

func TestTranscript_MessagesReturnsCopy(t *testing.T) {
	var tr Transcript
	tr.Append(RoleUser, "hello")

	msgs := tr.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "hello", tr.Messages()[0].Text)
}

func TestTranscript_Reset(t *testing.T) {
	var tr Transcript
	tr.Append(RoleUser, "hello")
	tr.Reset()

	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, "", tr.Render())
}

func TestIntent_Valid(t *testing.T) {
	assert.True(t, IntentRetrieval.Valid())
	assert.True(t, IntentForm.Valid())
	assert.False(t, Intent("planning").Valid())
	assert.False(t, Intent("").Valid())
}

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeAuto.Valid())
	assert.True(t, ModeRetrieval.Valid())
	assert.True(t, ModeForm.Valid())
	assert.False(t, Mode("manual").Valid())
}
