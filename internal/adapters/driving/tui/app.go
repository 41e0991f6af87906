package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/esilv-labs/askcampus/internal/adapters/driving/tui/keymap"
	"github.com/esilv-labs/askcampus/internal/adapters/driving/tui/styles"
	"github.com/esilv-labs/askcampus/internal/core/domain"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

// chatEntry is one rendered transcript line pair.
type chatEntry struct {
	role domain.Role
	text string
}

// turnCompleted carries a finished turn back to the model.
type turnCompleted struct {
	result domain.TurnResult
	err    error
}

// reindexCompleted carries a finished index rebuild back to the model.
type reindexCompleted struct {
	stats driving.IndexStats
	err   error
}

// modeCycle is the Tab rotation order.
var modeCycle = []domain.Mode{domain.ModeAuto, domain.ModeRetrieval, domain.ModeForm}

// App is the chat interface. It implements tea.Model for use with
// Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	input    textinput.Model
	history  viewport.Model
	spinner  spinner.Model
	entries  []chatEntry
	mode     domain.Mode
	waiting  bool
	indexing bool
	elapsed  time.Duration
	notice   string
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat interface with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask about the school, or ask to be contacted"
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.Muted

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		input:   input,
		spinner: spin,
		mode:    domain.ModeAuto,
	}, nil
}

// WithContext sets the context used for turns.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// Mode returns the current turn mode.
func (a *App) Mode() domain.Mode {
	return a.mode
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.waiting && !a.indexing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case turnCompleted:
		a.waiting = false
		a.err = msg.err
		a.elapsed = msg.result.Elapsed
		a.entries = append(a.entries, chatEntry{role: domain.RoleAssistant, text: msg.result.Message})
		a.refreshHistory()
		return a, nil

	case reindexCompleted:
		a.indexing = false
		if msg.err != nil {
			a.notice = "reindex failed: " + msg.err.Error()
			return a, nil
		}
		if a.ports.Staleness != nil {
			a.ports.Staleness.Ack()
		}
		a.notice = fmt.Sprintf("reindexed %d chunks", msg.stats.Chunks)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keys.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keys.CycleMode):
		a.mode = nextMode(a.mode)
		return a, nil

	case keymap.Matches(keyStr, a.keys.Reset):
		a.ports.Turn.Reset()
		a.entries = nil
		a.err = nil
		a.elapsed = 0
		a.notice = ""
		a.refreshHistory()
		return a, nil

	case keymap.Matches(keyStr, a.keys.Reindex):
		if a.ports.Index == nil || a.indexing {
			return a, nil
		}
		a.indexing = true
		a.notice = ""
		return a, tea.Batch(a.spinner.Tick, a.reindexCmd())

	case keymap.Matches(keyStr, a.keys.ScrollUp):
		a.history.HalfPageUp()
		return a, nil

	case keymap.Matches(keyStr, a.keys.ScrollDown):
		a.history.HalfPageDown()
		return a, nil

	case keymap.Matches(keyStr, a.keys.Send):
		return a.send()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// send submits the typed message as one turn.
func (a *App) send() (tea.Model, tea.Cmd) {
	if a.waiting {
		return a, nil
	}
	utterance := strings.TrimSpace(a.input.Value())
	if utterance == "" {
		return a, nil
	}

	a.entries = append(a.entries, chatEntry{role: domain.RoleUser, text: utterance})
	a.refreshHistory()
	a.input.Reset()
	a.waiting = true
	a.err = nil

	return a, tea.Batch(a.spinner.Tick, a.turnCmd(utterance))
}

func (a *App) turnCmd(utterance string) tea.Cmd {
	ctx, mode := a.ctx, a.mode
	return func() tea.Msg {
		result, err := a.ports.Turn.Handle(ctx, utterance, mode)
		return turnCompleted{result: result, err: err}
	}
}

func (a *App) reindexCmd() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		stats, err := a.ports.Index.Build(ctx)
		return reindexCompleted{stats: stats, err: err}
	}
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// Header, input box and status bar take the rest.
	historyHeight := height - 6
	if historyHeight < 3 {
		historyHeight = 3
	}
	if !a.ready {
		a.history = viewport.New(width, historyHeight)
		a.ready = true
	} else {
		a.history.Width = width
		a.history.Height = historyHeight
	}
	a.input.Width = width - 6
	a.refreshHistory()
}

// refreshHistory re-renders the transcript into the viewport and
// follows the tail.
func (a *App) refreshHistory() {
	if !a.ready {
		return
	}
	a.history.SetContent(a.renderTranscript())
	a.history.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("Ask a question to get started.")
	}

	var b strings.Builder
	for i, entry := range a.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := a.styles.AssistantLabel.Render("Assistant")
		if entry.role == domain.RoleUser {
			label = a.styles.UserLabel.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(a.styles.Normal.Width(a.width - 2).Render(entry.text))
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("askcampus"))
	b.WriteString("\n")
	b.WriteString(a.history.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Width(a.width - 2).Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return b.String()
}

func (a *App) statusLine() string {
	parts := []string{"mode: " + string(a.mode)}

	switch {
	case a.waiting:
		parts = append(parts, a.spinner.View()+"thinking")
	case a.indexing:
		parts = append(parts, a.spinner.View()+"indexing")
	case a.elapsed > 0:
		parts = append(parts, a.elapsed.Round(time.Millisecond).String())
	}

	if a.err != nil {
		parts = append(parts, a.styles.Error.Render("error: "+a.err.Error()))
	}
	if a.notice != "" {
		parts = append(parts, a.notice)
	}
	if a.ports.Staleness != nil && a.ports.Staleness.Stale() {
		parts = append(parts, a.styles.Warning.Render("documents changed, ctrl+b to reindex"))
	}

	parts = append(parts, a.styles.Muted.Render("tab mode · ctrl+r reset · esc quit"))
	return a.styles.StatusBar.Width(a.width).Render(strings.Join(parts, "  "))
}

// nextMode rotates through the turn modes.
func nextMode(mode domain.Mode) domain.Mode {
	for i, m := range modeCycle {
		if m == mode {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return domain.ModeAuto
}
