package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/esilv-labs/askcampus/internal/adapters/driving/tui"
	"github.com/esilv-labs/askcampus/internal/core/domain"
)

var chatPlain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive assistant session",
	Long: `Starts an interactive session with the campus assistant.

On a terminal this launches the full-screen chat interface:
  Enter    - Send the typed message
  Tab      - Cycle turn mode (auto, retrieval, form)
  Ctrl+R   - Reset the conversation
  Esc/Ctrl+C - Quit

With --plain, or when stdin is not a terminal, a line-based session
runs instead. Plain sessions understand /mode, /reset and /quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "force the line-based session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if turnService == nil {
		return errors.New("turn service not configured")
	}

	if chatPlain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return runPlainChat(cmd)
	}
	return runChatTUI(cmd)
}

func runChatTUI(cmd *cobra.Command) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Turn:  turnService,
		Index: indexService,
	}
	if docWatcher != nil {
		ports.Staleness = docWatcher
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runPlainChat is the line-based session for pipes and dumb terminals.
func runPlainChat(cmd *cobra.Command) error {
	mode := domain.ModeAuto
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	cmd.Println("askcampus ready. Type a question, or /quit to leave.")
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := handleChatCommand(cmd, line, &mode)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		}

		if docWatcher != nil && docWatcher.Stale() {
			cmd.Println("(documents changed; run \"askcampus index build\" to refresh)")
		}

		result, err := turnService.Handle(cmd.Context(), line, mode)
		if err != nil {
			// Still renderable; the session continues.
			cmd.Println(result.Message)
			continue
		}
		cmd.Println(result.Message)
	}
	return scanner.Err()
}

func handleChatCommand(cmd *cobra.Command, line string, mode *domain.Mode) (done bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/reset":
		turnService.Reset()
		cmd.Println("Conversation reset.")
	case "/mode":
		if len(fields) < 2 {
			cmd.Printf("Mode: %s\n", *mode)
			return false, nil
		}
		switch m := domain.Mode(fields[1]); m {
		case domain.ModeAuto, domain.ModeRetrieval, domain.ModeForm:
			*mode = m
			cmd.Printf("Mode set to %s.\n", m)
		default:
			cmd.Printf("Unknown mode %q. Modes: auto, retrieval, form.\n", fields[1])
		}
	default:
		cmd.Printf("Unknown command %s. Commands: /mode, /reset, /quit.\n", fields[0])
	}
	return false, nil
}
