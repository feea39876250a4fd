// Package tui is the terminal console: a log pane, a sidebar with the count
// and the current recommendation, and a command prompt.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/command"
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/session"
)

// TUIModel represents the Bubble Tea model for the console
type TUIModel struct {
	session *session.Session
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	pending     []game.Event
	adviceCh    chan advisor.Advice
	advice      *advisor.Advice
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// AdviceMsg carries a recommendation into the update loop
type AdviceMsg advisor.Advice

// NewTUIModel creates a console model. Call Attach before running it.
func NewTUIModel(logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(logger, false)
}

// NewTUIModelWithOptions creates a console model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, testMode bool) *TUIModel {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "start, hit 10, dealer 6, stand, resolve, help..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		adviceCh:    make(chan advisor.Advice, 1),
		focusedPane: 1,
		testMode:    testMode,
		capturedLog: []string{},
	}
}

// OnAdvice is the session's advice callback. It keeps only the newest
// undelivered recommendation.
func (m *TUIModel) OnAdvice(a advisor.Advice) {
	for {
		select {
		case m.adviceCh <- a:
			return
		default:
		}
		select {
		case <-m.adviceCh:
		default:
		}
	}
}

// Attach connects the model to a session and subscribes to engine events.
func (m *TUIModel) Attach(s *session.Session) {
	m.session = s
	// Events arrive synchronously while a command runs in Update
	s.Subscribe(game.SubscriberFunc(func(e game.Event) {
		m.pending = append(m.pending, e)
	}))
	m.AddLogEntry(HeaderStyle.Render(" shoecount ") + " type 'help' for commands")
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForAdvice())
}

// listenForAdvice returns a command that waits for the next recommendation
func (m *TUIModel) listenForAdvice() tea.Cmd {
	return func() tea.Msg {
		return AdviceMsg(<-m.adviceCh)
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case AdviceMsg:
		a := advisor.Advice(msg)
		// A command may have run while this waited in the queue
		if m.session != nil && !m.session.Current(a.Generation) {
			m.logger.Debug("Dropping stale advice", "generation", a.Generation)
		} else {
			m.advice = &a
		}
		cmds = append(cmds, m.listenForAdvice())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				line := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.Submit(line) {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "pgup", "home":
			if m.focusedPane == 0 {
				m.scroll(msg.String())
			}
		case "down", "pgdown", "end":
			if m.focusedPane == 0 {
				m.scroll(msg.String())
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) scroll(key string) {
	switch key {
	case "up":
		m.logViewport.ScrollUp(1)
	case "down":
		m.logViewport.ScrollDown(1)
	case "pgup":
		m.logViewport.HalfPageUp()
	case "pgdown":
		m.logViewport.HalfPageDown()
	case "home":
		m.logViewport.GotoTop()
	case "end":
		m.logViewport.GotoBottom()
	}
}

// Submit runs one command line and logs its outcome. It reports whether the
// console should exit.
func (m *TUIModel) Submit(line string) bool {
	if line == "" {
		return false
	}
	m.AddLogEntry(InfoStyle.Render("> " + line))

	res, err := m.session.Run(line)
	m.flushEvents()
	if err != nil {
		if errors.Is(err, command.ErrUnknown) {
			m.AddLogEntry(ErrorStyle.Render(err.Error()) + InfoStyle.Render(" (type 'help')"))
		} else {
			m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
		}
		return false
	}

	if res.Mutated {
		m.advice = nil
	}
	if res.Message != "" && res.Verb != command.Resolve {
		m.AddLogEntry(SuccessStyle.Render(res.Message))
	} else if res.Verb == command.Resolve {
		m.AddLogEntry(WarningStyle.Render(res.Message))
	}
	for _, l := range res.Lines {
		m.AddLogEntry("  " + l)
	}
	return res.Quit
}

// flushEvents logs hand actions raised by the last command, such as the
// automatic move to the next hand. Other events repeat the command result.
func (m *TUIModel) flushEvents() {
	for _, e := range m.pending {
		if _, ok := e.(game.HandActionEvent); ok {
			m.AddLogEntry(InfoStyle.Render("  " + game.FormatEvent(e)))
		}
	}
	m.pending = m.pending[:0]
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	snap := m.session.Snapshot()

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane(snap)
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(1, m.width-2)).
		Height(max(1, actionHeight))
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right of the log)
	sidebarContent := m.renderSidebarPane(snap)
	sidebarWidth := max(30, lipgloss.Width(sidebarContent))
	paneHeight := max(1, m.height-actionHeight-4)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the count, bankroll and recommendation
func (m *TUIModel) renderSidebarPane(snap game.Snapshot) string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("TC %+.2f", snap.TrueCount)))
	content.WriteString(fmt.Sprintf("  RC %+d\n", snap.Running))
	content.WriteString(fmt.Sprintf("Cards left: %d  Seen: %d\n", snap.Remaining, snap.Seen))
	content.WriteString(fmt.Sprintf("Decks left: %.2f of %d\n", snap.DecksRemaining, snap.Decks))
	content.WriteString(fmt.Sprintf("Bankroll: %d\n", snap.Bankroll))
	content.WriteString(fmt.Sprintf("Next bet: %d\n", snap.SuggestedBet))
	if snap.SixCardCharlie {
		content.WriteString(InfoStyle.Render("Six-card charlie on") + "\n")
	}
	content.WriteString("\n")

	content.WriteString(InfoStyle.Render("Remaining by rank:") + "\n")
	for i, r := range deck.Ranks {
		content.WriteString(fmt.Sprintf("%3s:%-4d", r, snap.Counts[i]))
		if i%3 == 2 {
			content.WriteString("\n")
		}
	}
	content.WriteString("\n\n")

	content.WriteString(m.renderAdvice())
	return content.String()
}

func (m *TUIModel) renderAdvice() string {
	if m.advice == nil {
		return InfoStyle.Render("No recommendation")
	}
	rec := m.advice.Recommendation
	if !rec.Available {
		return InfoStyle.Render("Hand " + fmt.Sprint(m.advice.Hand+1) + ": " + rec.Reason)
	}

	var b strings.Builder
	b.WriteString(AdviceStyle.Render(fmt.Sprintf("Hand %d: %s", m.advice.Hand+1, strings.ToUpper(rec.Action.String()))))
	b.WriteString("\n" + rec.Reason + "\n")
	if rec.Result.Iterations > 0 {
		r := rec.Result
		b.WriteString(fmt.Sprintf("EV %+.3f  W %.0f%% P %.0f%% L %.0f%%\n", r.MeanEV/float64(max(1, m.betFor())), r.WinRate*100, r.PushRate*100, r.LossRate*100))
	}
	for _, alt := range rec.Alternatives {
		if alt.Action == rec.Action {
			continue
		}
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  %-6s EV %+.3f", alt.Action, alt.MeanEV/float64(max(1, m.betFor())))) + "\n")
	}
	return b.String()
}

// betFor returns the wager of the advised hand, for EV per unit
func (m *TUIModel) betFor() int {
	r := m.session.Snapshot().Round
	if r == nil || m.advice == nil || m.advice.Hand >= len(r.Hands) {
		return 1
	}
	return r.Hands[m.advice.Hand].Wager
}

// renderActionPane renders the round and the input field
func (m *TUIModel) renderActionPane(snap game.Snapshot) string {
	var content strings.Builder

	if r := snap.Round; r != nil {
		content.WriteString(HandInfoStyle.Render("Dealer: "))
		content.WriteString(formatCards(r.Dealer))
		content.WriteString("\n")
		for i, h := range r.Hands {
			line := command.HandSummary(i, h)
			if i == r.Active && !h.Finished {
				content.WriteString(ActiveHandStyle.Render("> "+line) + "  " + formatCards(h.Cards))
			} else {
				content.WriteString("  " + line)
			}
			content.WriteString("\n")
		}
	} else {
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("No round. 'start' to bet %d", snap.SuggestedBet)))
		content.WriteString("\n")
	}
	if len(snap.Table) > 0 || len(snap.Burn) > 0 {
		content.WriteString(InfoStyle.Render("Table: ") + formatCards(snap.Table))
		content.WriteString(InfoStyle.Render("  Burn: ") + formatCards(snap.Burn) + "\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

// formatCards colours ranks by their Hi-Lo tag
func formatCards(cards []deck.Rank) string {
	if len(cards) == 0 {
		return "[]"
	}
	formatted := make([]string, len(cards))
	for i, c := range cards {
		switch c.HiLo() {
		case 1:
			formatted[i] = LowCardStyle.Render(c.String())
		case -1:
			formatted[i] = HighCardStyle.Render(c.String())
		default:
			formatted[i] = NeutralCardStyle.Render(c.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
