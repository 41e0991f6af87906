package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var contactsJSON bool

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage collected contact records",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collected contact records",
	RunE:  runContactsList,
}

func init() {
	contactsListCmd.Flags().BoolVar(&contactsJSON, "json", false, "output records as JSON")
	contactsCmd.AddCommand(contactsListCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if contactLog == nil {
		return errors.New("contact log not configured")
	}

	contacts, err := contactLog.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	if contactsJSON {
		data, err := json.MarshalIndent(contacts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal contacts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(contacts) == 0 {
		cmd.Println("No contact records yet.")
		return nil
	}

	for i, c := range contacts {
		phone := "-"
		if c.Phone != nil {
			phone = *c.Phone
		}
		cmd.Printf("  [%d] %s  %s  %s\n", i+1, c.Name, c.Email, phone)
	}
	return nil
}
