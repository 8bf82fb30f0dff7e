package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/game"
)

// MaxPlayers is the most seats the table setup offers.
const MaxPlayers = 5

// UI drives the blackjack TUI. It is the table's agent, collecting bets
// and choices from the terminal, and its event subscriber, rendering
// every table state change into the log pane.
type UI struct {
	model   *TUIModel
	program *tea.Program
	logger  *log.Logger
}

// NewUI creates the TUI and its program. Run must be called before any
// prompt is issued.
func NewUI(logger *log.Logger, opts ...tea.ProgramOption) *UI {
	model := NewTUIModel()
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(model, opts...)

	return &UI{
		model:   model,
		program: program,
		logger:  logger,
	}
}

// Run runs the TUI program until the user quits or Quit is called.
func (u *UI) Run() error {
	_, err := u.program.Run()
	return err
}

// Quit stops the TUI program and waits for the terminal to be restored.
func (u *UI) Quit() {
	u.program.Quit()
	u.program.Wait()
}

// OnEvent renders a table event. Called from the game loop goroutine;
// the program serializes rendering onto its own update loop.
func (u *UI) OnEvent(event game.GameEvent) {
	u.program.Send(eventMsg{event: event})
}

// Announce writes a line to the log pane outside of any game event.
func (u *UI) Announce(text string) {
	u.program.Send(eventMsg{event: game.NewMessageEvent(text)})
}

// SetupPlayers prompts for each player's name. When count is not
// positive the number of players is prompted for first.
func (u *UI) SetupPlayers(ctx context.Context, count int) ([]string, error) {
	if count < 1 || count > MaxPlayers {
		var err error
		count, err = u.promptInt(ctx,
			fmt.Sprintf("How many players? (1-%d)", MaxPlayers),
			"number of players", 1, MaxPlayers)
		if err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		name, err := u.promptString(ctx,
			fmt.Sprintf("Name for player %d?", i),
			"player name")
		if err != nil {
			return nil, err
		}
		if len(name) > game.MaxNameLength {
			name = name[:game.MaxNameLength]
			u.Announce(fmt.Sprintf("Name shortened to %s.", name))
		}
		names = append(names, name)
	}
	return names, nil
}

// Bet asks the player for a wager. The amount must be between 1 and the
// player's bankroll; q leaves the table.
func (u *UI) Bet(ctx context.Context, req game.BetRequest) (game.BetResponse, error) {
	u.logger.Debug("prompting for bet", "player", req.Player, "bankroll", req.Bankroll)

	reply := make(chan game.BetResponse, 1)
	u.program.Send(promptMsg{
		label:       fmt.Sprintf("%s, you have %d. Place your bet.", req.Player, req.Bankroll),
		placeholder: "bet amount, or q to leave",
		accept: func(input string) error {
			input = strings.ToLower(strings.TrimSpace(input))
			if input == "q" || input == "quit" {
				reply <- game.BetResponse{Quit: true}
				return nil
			}
			amount, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("Enter a number, or q to leave.")
			}
			if amount < 1 || amount > req.Bankroll {
				return fmt.Errorf("Bet must be between 1 and %d.", req.Bankroll)
			}
			reply <- game.BetResponse{Amount: amount}
			return nil
		},
	})

	select {
	case resp := <-reply:
		u.logger.Debug("bet received", "player", req.Player, "amount", resp.Amount, "quit", resp.Quit)
		return resp, nil
	case <-ctx.Done():
		return game.BetResponse{}, ctx.Err()
	}
}

// Choose asks the player to play a hand using single-letter commands.
func (u *UI) Choose(ctx context.Context, req game.ChoiceRequest) (game.Choice, error) {
	u.logger.Debug("prompting for choice",
		"player", req.Player, "hand", req.HandNum, "score", req.Score)

	label := fmt.Sprintf("%s: %s (%d)  %s?",
		req.Player, handLabel(req), req.Score, choiceMenu(req.Choices))

	reply := make(chan game.Choice, 1)
	u.program.Send(promptMsg{
		label:       label,
		placeholder: choicePlaceholder(req.Choices),
		accept: func(input string) error {
			choice, ok := parseChoice(input, req.Choices)
			if !ok {
				return fmt.Errorf("Enter one of: %s.", choicePlaceholder(req.Choices))
			}
			reply <- choice
			return nil
		},
	})

	select {
	case choice := <-reply:
		u.logger.Debug("choice received", "player", req.Player, "choice", choice.String())
		return choice, nil
	case <-ctx.Done():
		return game.Stand, ctx.Err()
	}
}

// promptInt collects an integer in [min, max], re-prompting on bad input.
func (u *UI) promptInt(ctx context.Context, label, placeholder string, min, max int) (int, error) {
	reply := make(chan int, 1)
	u.program.Send(promptMsg{
		label:       label,
		placeholder: placeholder,
		accept: func(input string) error {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || n < min || n > max {
				return fmt.Errorf("Enter a number between %d and %d.", min, max)
			}
			reply <- n
			return nil
		},
	})

	select {
	case n := <-reply:
		return n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// promptString collects a non-empty line.
func (u *UI) promptString(ctx context.Context, label, placeholder string) (string, error) {
	reply := make(chan string, 1)
	u.program.Send(promptMsg{
		label:       label,
		placeholder: placeholder,
		accept: func(input string) error {
			input = strings.TrimSpace(input)
			if input == "" {
				return fmt.Errorf("Enter a name.")
			}
			reply <- input
			return nil
		},
	})

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// choiceKey is the single-letter command for a choice. Split takes p,
// the casino call, since s is taken by stand.
func choiceKey(c game.Choice) string {
	switch c {
	case game.Stand:
		return "s"
	case game.Hit:
		return "h"
	case game.Double:
		return "d"
	case game.Split:
		return "p"
	default:
		return "?"
	}
}

func choiceMenu(choices []game.Choice) string {
	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		parts = append(parts, fmt.Sprintf("%s (%s)", strings.ToLower(c.String()), choiceKey(c)))
	}
	return strings.Join(parts, " ")
}

func choicePlaceholder(choices []game.Choice) string {
	keys := make([]string, 0, len(choices))
	for _, c := range choices {
		keys = append(keys, choiceKey(c))
	}
	return strings.Join(keys, "/")
}

// parseChoice matches a command against the offered choices, accepting
// the single letter or the word ("double" for double down).
func parseChoice(input string, offered []game.Choice) (game.Choice, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, c := range offered {
		word := strings.Fields(c.String())[0]
		if input == choiceKey(c) || input == word {
			return c, true
		}
	}
	return game.Stand, false
}

func handLabel(req game.ChoiceRequest) string {
	cards := make([]string, 0, len(req.Cards))
	for _, c := range req.Cards {
		cards = append(cards, c.String())
	}
	label := "[" + strings.Join(cards, " ") + "]"
	if req.NumHands > 1 {
		label = fmt.Sprintf("hand %d of %d %s", req.HandNum, req.NumHands, label)
	}
	return label
}
