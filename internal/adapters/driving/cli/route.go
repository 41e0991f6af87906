package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var routeJSON bool

var routeCmd = &cobra.Command{
	Use:   "route [utterance]",
	Short: "Show the routing decision for an utterance",
	Long: `Classifies an utterance without answering it and prints the
chosen branch and the tier that decided (keyword, model or fallback).
Useful for tuning the router prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if routerService == nil {
		return errors.New("router service not configured")
	}

	decision := routerService.Route(cmd.Context(), args[0])

	if routeJSON {
		data, err := json.Marshal(map[string]string{
			"intent": string(decision.Intent),
			"basis":  string(decision.Basis),
		})
		if err != nil {
			return fmt.Errorf("marshal decision: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Intent: %s (decided by %s)\n", decision.Intent, decision.Basis)
	return nil
}
