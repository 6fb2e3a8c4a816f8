package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/game"
)

// eventMsg carries one game event from the engine goroutine
type eventMsg struct {
	event game.GameEvent
}

// handDoneMsg is sent when PlayHand returns
type handDoneMsg struct {
	summary *game.HandSummary
	err     error
}

// effectMsg carries the outcome of a peek or swap request
type effectMsg struct {
	kind game.EffectKind
	err  error
}

// Bridge forwards bus events to the model. Publishing blocks once the buffer
// is full, so the engine never runs far ahead of what is on screen.
type Bridge struct {
	events chan game.GameEvent
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates a bridge with room for size pending events
func NewBridge(size int) *Bridge {
	return &Bridge{
		events: make(chan game.GameEvent, size),
		done:   make(chan struct{}),
	}
}

// OnEvent implements game.EventSubscriber. Events are dropped once the
// bridge is closed.
func (b *Bridge) OnEvent(e game.GameEvent) {
	select {
	case b.events <- e:
	case <-b.done:
	}
}

// Close stops delivery so a publisher is never left blocked
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// seatLine is the sidebar view of a seat, maintained from events only so the
// UI never reads engine state directly
type seatLine struct {
	Name       string
	Chips      int
	Energy     int
	Folded     bool
	SittingOut bool
}

// Model is the Bubble Tea model for an interactive table
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *game.Session
	human   *game.HumanDecider
	bridge  *Bridge
	logger  *log.Logger
	format  EventFormatter

	logViewport viewport.Model
	input       textinput.Model

	gameLog     []string
	seats       []seatLine
	pot         int
	board       []deck.Card
	hole        []deck.Card
	toCall      int
	prompting   bool
	handRunning bool
	gameOver    bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width  int
	height int
}

// NewModel creates a model for session. human may be nil to watch an all-AI
// table; bridge must already be subscribed to the session's bus.
func NewModel(ctx context.Context, session *game.Session, human *game.HumanDecider, bridge *Bridge, logger *log.Logger) *Model {
	ctx, cancel := context.WithCancel(ctx)

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	perspective := -1
	if human != nil {
		perspective = human.Seat()
	}

	return &Model{
		ctx:         ctx,
		cancel:      cancel,
		session:     session,
		human:       human,
		bridge:      bridge,
		logger:      logger.WithPrefix("tui"),
		format:      EventFormatter{Perspective: perspective},
		logViewport: vp,
		input:       ti,
		focusedPane: 1,
	}
}

// Init starts the first hand and begins listening for events
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent(), m.startHand())
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.bridge.events:
			return eventMsg{event: e}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// startHand runs one hand on its own goroutine. The session is only ever
// touched from there while the hand is in progress.
func (m *Model) startHand() tea.Cmd {
	if m.handRunning || m.gameOver {
		return nil
	}
	m.handRunning = true
	return func() tea.Msg {
		summary, err := m.session.PlayHand(m.ctx)
		return handDoneMsg{summary: summary, err: err}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		m.apply(msg.event)
		cmds = append(cmds, m.waitForEvent())

	case handDoneMsg:
		m.handRunning = false
		m.prompting = false
		switch {
		case errors.Is(msg.err, game.ErrNotEnoughPlayers):
			m.gameOver = true
			m.AddLogEntry(WarningStyle.Render("Game over: not enough players with chips"))
		case msg.err != nil && m.ctx.Err() == nil:
			m.logger.Error("Hand failed", "error", msg.err)
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Hand failed: %v", msg.err)))
		}
		if !m.gameOver && m.ctx.Err() == nil {
			m.AddLogEntry(InfoStyle.Render("Press Enter for the next hand"))
		}

	case effectMsg:
		if msg.err != nil {
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s failed: %v", msg.kind, msg.err)))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				cmd := m.processCommand(m.input.Value())
				m.input.SetValue("")
				cmds = append(cmds, cmd)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.cancel()
	m.bridge.Close()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// processCommand interprets a line typed at the prompt
func (m *Model) processCommand(input string) tea.Cmd {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "q", "quit", "exit":
		return m.quit()
	case "", "n", "next":
		if m.handRunning {
			if cmd != "" {
				m.AddLogEntry(InfoStyle.Render("Hand in progress"))
			}
			return nil
		}
		return m.startHand()
	case "p", "peek":
		return m.requestEffect(game.PeekEffect)
	case "s", "swap":
		return m.requestEffect(game.SwapEffect)
	}

	action, err := game.ParseAction(cmd)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Unknown command %q (fold, check, call, raise, peek, swap, next, quit)", cmd)))
		return nil
	}
	if m.human == nil {
		m.AddLogEntry(ErrorStyle.Render("No human seat at this table"))
		return nil
	}
	if err := m.human.SubmitAction(m.human.Seat(), action); err != nil {
		m.logger.Warn("Rejected action", "action", action, "error", err)
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return nil
	}
	m.prompting = false
	return nil
}

func (m *Model) requestEffect(kind game.EffectKind) tea.Cmd {
	if m.human == nil {
		m.AddLogEntry(ErrorStyle.Render("No human seat at this table"))
		return nil
	}
	human, ctx := m.human, m.ctx
	return func() tea.Msg {
		var err error
		switch kind {
		case game.PeekEffect:
			_, err = human.Peek(ctx)
		case game.SwapEffect:
			_, err = human.Swap(ctx)
		}
		return effectMsg{kind: kind, err: err}
	}
}

// apply updates the display state from an event and logs it
func (m *Model) apply(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartEvent:
		m.seats = make([]seatLine, len(e.Seats))
		for i, s := range e.Seats {
			m.seats[i] = seatLine{Name: s.Name, Chips: s.Chips, Energy: s.Energy, SittingOut: s.SittingOut}
		}
		m.pot, m.board, m.hole, m.toCall = 0, nil, nil, 0

	case game.BlindEvent:
		m.pay(e.Seat, e.Amount)
		m.pot = e.Pot

	case game.StageEvent:
		m.board = e.Board
		m.pot = e.Pot

	case game.ActionPromptEvent:
		if m.human != nil && e.Seat == m.human.Seat() {
			m.prompting = true
			m.hole, m.toCall, m.pot = e.Hole, e.ToCall, e.Pot
		}

	case game.ActionResultEvent:
		m.pay(e.Seat, e.Paid)
		m.pot = e.Pot
		if e.Action == game.Fold && e.Seat < len(m.seats) {
			m.seats[e.Seat].Folded = true
		}

	case game.EffectEvent:
		if e.Seat < len(m.seats) {
			m.seats[e.Seat].Energy = e.Energy
		}
		if e.Swap != nil && e.Swap.Index < len(m.hole) {
			m.hole[e.Swap.Index] = e.Swap.New
		}

	case game.HandCompleteEvent:
		if s := e.Summary; s != nil && s.Winner >= 0 && s.Winner < len(m.seats) {
			m.seats[s.Winner].Chips += s.Amount
		}
		m.pot = 0
		m.prompting = false
	}

	for _, line := range m.format.Format(event) {
		m.AddLogEntry(m.style(event, line))
	}
}

func (m *Model) pay(seat, amount int) {
	if seat < len(m.seats) {
		m.seats[seat].Chips -= amount
	}
}

func (m *Model) style(event game.GameEvent, line string) string {
	switch event.(type) {
	case game.HandStartEvent, game.StageEvent:
		return StageStyle.Render(line)
	case game.ActionPromptEvent:
		return PromptStyle.Render(line)
	case game.EffectEvent:
		return EnergyStyle.Render(line)
	case game.HandCompleteEvent:
		return WinStyle.Render(line)
	case game.FaultEvent:
		return ErrorStyle.Render(line)
	}
	return line
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the log lines written so far
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(1, m.width-2)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(25, lipgloss.Width(sidebarContent))
	paneHeight := max(1, m.height-actionHeight-4)

	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = paneHeight

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262"))
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Top, top, actionPane)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: $%d", m.pot)))
	b.WriteString("\n")
	if len(m.board) > 0 {
		b.WriteString("Board: " + m.formatCards(m.board))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, s := range m.seats {
		line := fmt.Sprintf("%-8s $%-5d", s.Name, s.Chips)
		switch {
		case s.SittingOut:
			line = InfoStyle.Render(line + " out")
		case s.Folded:
			line = InfoStyle.Render(line + " folded")
		}
		b.WriteString(line)
		b.WriteString(" " + EnergyStyle.Render(fmt.Sprintf("⚡%d", s.Energy)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	switch {
	case m.prompting:
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  To call: $%d  Pot: $%d",
			m.formatCards(m.hole), m.toCall, m.pot)))
		b.WriteString("\n")
		b.WriteString(PromptStyle.Render("fold · check · call · raise · peek · swap"))
	case m.gameOver:
		b.WriteString(WarningStyle.Render("Game over"))
	case m.handRunning:
		b.WriteString(HandInfoStyle.Render("Waiting..."))
	default:
		b.WriteString(HandInfoStyle.Render("Enter for the next hand, 'quit' to exit"))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	return b.String()
}

func (m *Model) formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = RedCardStyle.Render(c.String())
		} else {
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
