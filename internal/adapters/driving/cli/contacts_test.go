package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

func TestContactsListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("contacts", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No contact records yet.")
}

func TestContactsListCmd_PrintsRecords(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	phone := "+33 6 12 34 56 78"
	contactLog = &stubContactLog{contacts: []domain.Contact{
		{Name: "Alice Martin", Email: "alice@example.com", Phone: &phone},
		{Name: "Bob Durand", Email: "bob@example.com"},
	}}

	out, err := executeCommand("contacts", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Alice Martin")
	assert.Contains(t, out, "+33 6 12 34 56 78")
	assert.Contains(t, out, "Bob Durand")
	assert.Contains(t, out, "-", "a skipped phone renders as a dash")
}

func TestContactsListCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	contactLog = &stubContactLog{contacts: []domain.Contact{
		{Name: "Alice Martin", Email: "alice@example.com"},
	}}

	out, err := executeCommand("contacts", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Alice Martin"`)
	assert.Contains(t, out, `"phone": null`)
}
