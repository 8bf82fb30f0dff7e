package game

import (
	"errors"

	"github.com/lox/blackjack-cli/internal/deck"
)

// MaxNameLength caps player names for the table display.
const MaxNameLength = 10

// DefaultBankroll is the money each player sits down with.
const DefaultBankroll = 1000

// ErrCannotSplit is returned when a split is requested on a hand that is
// not two equal-value cards, or the bankroll cannot cover the second bet.
var ErrCannotSplit = errors.New("hand cannot be split")

// Player owns a bankroll and the ordered hand chain for the current round.
// Split hands live in the Hands slice, processed by index in creation
// order rather than through a linked sibling chain.
type Player struct {
	Name     string
	Bankroll int
	Hands    []*Hand
	Active   bool
}

// NewPlayer creates a seated player with a single empty hand.
// Names longer than MaxNameLength runes are truncated.
func NewPlayer(name string, bankroll int) *Player {
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	return &Player{
		Name:     name,
		Bankroll: bankroll,
		Hands:    []*Hand{NewHand()},
		Active:   true,
	}
}

// ResetForRound clears all hands from the previous round, leaving one
// empty unbet hand.
func (p *Player) ResetForRound() {
	for _, h := range p.Hands {
		h.Clear()
	}
	p.Hands = p.Hands[:0]
	p.Hands = append(p.Hands, NewHand())
}

// PlaceBet moves amount from the bankroll onto the player's primary hand.
// The caller validates the range; amounts outside [0, Bankroll] panic.
func (p *Player) PlaceBet(amount int) {
	if amount < 0 || amount > p.Bankroll {
		panic("game: bet out of range; agent must validate before submitting")
	}
	p.Bankroll -= amount
	p.Hands[0].Bet = amount
}

// SplitHand splits the player's i-th hand: the second card moves into a
// new hand inserted directly after it, a matching bet is deducted from
// the bankroll, and one fresh card is dealt to each of the two hands.
func (p *Player) SplitHand(i int, shoe *deck.Shoe) error {
	if i < 0 || i >= len(p.Hands) {
		return ErrCannotSplit
	}
	hand := p.Hands[i]
	if !hand.CanSplit(p.Bankroll) {
		return ErrCannotSplit
	}

	next := NewHand()
	next.Bet = hand.Bet
	next.split = true
	next.AddCard(hand.cards[1])
	hand.cards = hand.cards[:1]
	hand.split = true

	p.Bankroll -= hand.Bet
	p.Hands = append(p.Hands, nil)
	copy(p.Hands[i+2:], p.Hands[i+1:])
	p.Hands[i+1] = next

	hand.AddCard(shoe.Deal())
	next.AddCard(shoe.Deal())
	return nil
}

// Dealer holds the house hand. The first dealt card is the hole card,
// hidden until FaceUp is set at the start of the dealer's turn.
type Dealer struct {
	Name   string
	Hand   *Hand
	FaceUp bool
}

// NewDealer creates the dealer with an empty hand and a hidden hole card.
func NewDealer() *Dealer {
	return &Dealer{
		Name: "Dealer",
		Hand: NewHand(),
	}
}

// ResetForRound clears the dealer's hand and hides the hole card.
func (d *Dealer) ResetForRound() {
	d.Hand.Clear()
	d.FaceUp = false
}

// Upcard returns the dealer's visible card, the second one dealt.
func (d *Dealer) Upcard() (deck.Card, bool) {
	if d.Hand.Count() < 2 {
		return deck.Card{}, false
	}
	return d.Hand.cards[1], true
}

// HoleCard returns the dealer's first dealt card.
func (d *Dealer) HoleCard() (deck.Card, bool) {
	if d.Hand.Count() < 1 {
		return deck.Card{}, false
	}
	return d.Hand.cards[0], true
}
