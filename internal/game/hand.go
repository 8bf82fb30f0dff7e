package game

import (
	"github.com/lox/blackjack-cli/internal/deck"
)

// BlackjackScore is the target total; any hand above it is bust.
const BlackjackScore = 21

// Hand is an ordered sequence of dealt cards backing one bet.
// Hands created by a split are marked so settlement never pays a split
// two-card 21 as a natural blackjack.
type Hand struct {
	cards []deck.Card
	Bet   int
	split bool
}

// NewHand creates an empty hand with no bet.
func NewHand() *Hand {
	return &Hand{}
}

// AddCard appends a card to the end of the hand.
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the hand's cards in deal order.
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Count returns the number of cards in the hand.
func (h *Hand) Count() int {
	return len(h.cards)
}

// Score computes the blackjack total. Each Ace counts as 11 until the
// running total passes 21, at which point one Ace is demoted to 1; the
// demotion is checked after every card so A,A,10 scores 12. An empty
// hand scores 0.
func (h *Hand) Score() int {
	score, _ := h.score()
	return score
}

// IsSoft reports whether the hand's score still counts an Ace as 11.
func (h *Hand) IsSoft() bool {
	_, soft := h.score()
	return soft
}

func (h *Hand) score() (int, bool) {
	total := 0
	soft := false
	for _, c := range h.cards {
		if c.IsAce() && !soft {
			soft = true
			total += 11
		} else if c.IsAce() {
			total++
		} else {
			total += c.Value()
		}

		if total > BlackjackScore && soft {
			total -= 10
			soft = false
		}
	}
	return total, soft
}

// IsBlackjack reports a natural: exactly two cards scoring 21 on a hand
// that was not produced by a split.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Score() == BlackjackScore && !h.split
}

// IsBust reports whether the hand's score exceeds 21.
func (h *Hand) IsBust() bool {
	return h.Score() > BlackjackScore
}

// CanSplit reports whether the hand may be split: exactly two cards of
// equal blackjack value and a bankroll covering a duplicate bet.
func (h *Hand) CanSplit(bankroll int) bool {
	if len(h.cards) != 2 {
		return false
	}
	if h.cards[0].Value() != h.cards[1].Value() {
		return false
	}
	return bankroll >= h.Bet
}

// CanDouble reports whether the hand may double down: exactly two cards
// and a bankroll covering a matching bet.
func (h *Hand) CanDouble(bankroll int) bool {
	return len(h.cards) == 2 && bankroll >= h.Bet
}

// WasSplit reports whether this hand was created by, or has been, split.
func (h *Hand) WasSplit() bool {
	return h.split
}

// Clear releases the hand's cards and resets the bet. Clearing an
// already-empty hand is a no-op.
func (h *Hand) Clear() {
	h.cards = nil
	h.Bet = 0
	h.split = false
}
