package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/logger"
)

var askMode string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question and exits. The question is routed like an
interactive turn: informational questions get a grounded answer with
sources, contact requests start the contact dialogue.

Use --mode to skip routing and force a branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", string(domain.ModeAuto), "turn mode: auto, retrieval or form")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if turnService == nil {
		return errors.New("turn service not configured")
	}

	result, err := turnService.Handle(cmd.Context(), args[0], domain.Mode(askMode))
	if err != nil {
		// The result still carries a renderable failure message.
		cmd.Println(result.Message)
		return fmt.Errorf("turn failed: %w", err)
	}

	cmd.Println(result.Message)
	logger.Timing("turn", result.Elapsed)
	return nil
}
