package game

import (
	"context"

	"github.com/lox/blackjack-cli/internal/deck"
)

// BetRequest asks a player for their bet at the start of a round.
// Bankroll is the inclusive upper bound on the amount.
type BetRequest struct {
	Player   string
	Bankroll int
}

// BetResponse carries a validated bet, or the player's decision to leave
// the table for the rest of the session.
type BetResponse struct {
	Amount int
	Quit   bool
}

// ChoiceRequest asks a player what to do with one hand. Choices is the
// legal set from AvailableChoices; agents must return one of its members.
type ChoiceRequest struct {
	Player   string
	HandNum  int // 1-based position in the player's hand chain
	NumHands int
	Cards    []deck.Card
	Score    int
	Bet      int
	Bankroll int
	Choices  []Choice
}

// Agent supplies player decisions to the round loop. The loop blocks on
// these calls and nowhere else; input validation and re-prompting are the
// agent's concern, so a returned bet is always within [0, Bankroll] and a
// returned choice is always a member of the offered set.
type Agent interface {
	Bet(ctx context.Context, req BetRequest) (BetResponse, error)
	Choose(ctx context.Context, req ChoiceRequest) (Choice, error)
}
