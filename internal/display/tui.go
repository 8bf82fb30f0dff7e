package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/game"
)

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	prompt      *promptMsg
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Styles
	styles *TUIStyles

	// Dimensions
	width  int
	height int
}

// TUIStyles contains all styling for the TUI
type TUIStyles struct {
	// Pane styles
	LogPane    lipgloss.Style
	ActionPane lipgloss.Style

	// Content styles
	Header    lipgloss.Style
	HandInfo  lipgloss.Style
	Actions   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	HoleCard  lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// promptMsg asks the model to collect one line of input. The accept
// function parses and validates; a non-nil error keeps the prompt open
// and echoes the problem to the log. Delivery of the parsed value back
// to the asker happens inside accept.
type promptMsg struct {
	label       string
	placeholder string
	accept      func(input string) error
}

// eventMsg wraps a game event for rendering inside the update loop.
type eventMsg struct {
	event game.GameEvent
}

// NewTUIModel creates a new TUI model
func NewTUIModel() *TUIModel {
	styles := &TUIStyles{
		LogPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(1),
		ActionPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(1),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		HandInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Actions: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		HoleCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}

	// Create viewport for game log
	vp := viewport.New(100, 25)
	vp.SetContent("")

	// Create textinput for commands
	ti := textinput.New()
	ti.Placeholder = "Waiting for the table..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		styles:      styles,
		focusedPane: 1, // Start with input focused
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()

	case promptMsg:
		prompt := msg
		m.prompt = &prompt
		if prompt.label != "" {
			m.AddLogEntry(m.styles.HandInfo.Render(prompt.label))
		}
		m.actionInput.Placeholder = prompt.placeholder
		m.actionInput.SetValue("")
		m.focusedPane = 1
		m.actionInput.Focus()

	case eventMsg:
		m.renderEvent(msg.event)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 && m.prompt != nil {
				input := strings.TrimSpace(m.actionInput.Value())
				m.AddLogEntry("> " + input)
				if err := m.prompt.accept(input); err != nil {
					m.AddLogEntry(m.styles.Error.Render(err.Error()))
				} else {
					m.prompt = nil
					m.actionInput.Placeholder = "Waiting for the table..."
				}
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
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

	// Update components
	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	logPane := m.renderLogPane()
	actionPane := m.renderActionPane()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		logPane,
		actionPane,
	)
}

// renderLogPane renders the table log pane
func (m *TUIModel) renderLogPane() string {
	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)

	style := m.styles.LogPane.Width(m.width - 4)
	if m.focusedPane == 0 {
		style = style.BorderForeground(lipgloss.Color("#04B575"))
	}

	return style.Render(m.logViewport.View())
}

// renderActionPane renders the command input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(m.styles.Info.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(m.styles.Info.Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	style := m.styles.ActionPane.Width(m.width - 4)
	if m.focusedPane == 1 {
		style = style.BorderForeground(lipgloss.Color("#04B575"))
	}

	return style.Render(content.String())
}

// renderEvent appends log lines for a table state change.
func (m *TUIModel) renderEvent(e game.GameEvent) {
	switch e := e.(type) {
	case game.RoundStartEvent:
		m.AddLogEntry("")
		m.AddLogEntry(m.styles.Header.Render(fmt.Sprintf(" Round %d ", e.Round)))

	case game.DealEvent:
		m.AddLogEntry(m.renderDealer(e.Snapshot.Dealer))
		for _, p := range e.Snapshot.Players {
			if !p.Active {
				continue
			}
			for i, h := range p.Hands {
				m.AddLogEntry(m.renderHand(p, i, h, len(p.Hands)))
			}
		}

	case game.PlayerActionEvent:
		line := fmt.Sprintf("%s: %s %s (%d)",
			e.Player, e.Choice, m.formatCards(e.Hand.Cards), e.Hand.Score)
		if e.Busted {
			m.AddLogEntry(m.styles.Error.Render(line))
		} else {
			m.AddLogEntry(line)
		}

	case game.DealerRevealEvent:
		m.AddLogEntry(fmt.Sprintf("Dealer reveals %s (%d)",
			m.formatCards(e.Dealer.Cards), e.Dealer.Score))

	case game.DealerDrawEvent:
		m.AddLogEntry(fmt.Sprintf("Dealer draws %s %s (%d)",
			m.formatCard(e.Card), m.formatCards(e.Dealer.Cards), e.Dealer.Score))

	case game.SettlementEvent:
		style := m.styles.Info
		switch e.Outcome {
		case game.OutcomeWin, game.OutcomeBlackjack:
			style = m.styles.Success
		case game.OutcomeLoss:
			style = m.styles.Error
		case game.OutcomePush:
			style = m.styles.Warning
		}
		m.AddLogEntry(style.Render(fmt.Sprintf("%s hand %d: %s, bankroll %d",
			e.Player, e.HandNum, e.Outcome, e.Bankroll)))

	case game.RoundEndEvent:
		for _, p := range e.Snapshot.Players {
			if p.Active {
				m.AddLogEntry(fmt.Sprintf("%s: bankroll %d", p.Name, p.Bankroll))
			}
		}
		m.AddLogEntry("")

	case game.MessageEvent:
		m.AddLogEntry(e.Text)
	}
}

// renderDealer shows the dealer's cards, hiding the hole card until the
// reveal.
func (m *TUIModel) renderDealer(d game.DealerSnapshot) string {
	if d.FaceUp || len(d.Cards) < 2 {
		return fmt.Sprintf("Dealer: %s (%d)", m.formatCards(d.Cards), d.Score)
	}

	hidden := m.styles.HoleCard.Render("??")
	shown := make([]string, 0, len(d.Cards)-1)
	for _, c := range d.Cards[1:] {
		shown = append(shown, m.formatCard(c))
	}
	return fmt.Sprintf("Dealer: [%s %s]", hidden, strings.Join(shown, " "))
}

// renderHand shows one player hand with its bet and score.
func (m *TUIModel) renderHand(p game.PlayerSnapshot, i int, h game.HandSnapshot, hands int) string {
	label := p.Name
	if hands > 1 {
		label = fmt.Sprintf("%s (hand %d)", p.Name, i+1)
	}
	score := fmt.Sprintf("%d", h.Score)
	if h.Soft {
		score = "soft " + score
	}
	return fmt.Sprintf("%s: %s (%s)  bet %d  bankroll %d",
		label, m.formatCards(h.Cards), score, h.Bet, p.Bankroll)
}

// formatCards formats cards with colors
func (m *TUIModel) formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}

	var formatted []string
	for _, card := range cards {
		formatted = append(formatted, m.formatCard(card))
	}

	return "[" + strings.Join(formatted, " ") + "]"
}

func (m *TUIModel) formatCard(card deck.Card) string {
	if card.IsRed() {
		return m.styles.RedCard.Render(card.String())
	}
	return m.styles.BlackCard.Render(card.String())
}

// updateDimensions updates component dimensions based on terminal size
func (m *TUIModel) updateDimensions() {
	if m.height <= 0 || m.width <= 0 {
		return
	}

	// Input field, help text, border and padding.
	actionPaneHeight := 7

	logHeight := m.height - actionPaneHeight - 1
	if logHeight < 3 {
		logHeight = 3
	}

	// Account for borders and padding (2 for border, 2 for padding)
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = logHeight - 4

	m.actionInput.Width = m.width - 8
}

// AddLogEntry adds an entry to the table log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)

	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GameLog returns a copy of the rendered log lines.
func (m *TUIModel) GameLog() []string {
	return append([]string(nil), m.gameLog...)
}
