package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// CardsPerDeck is the number of cards in a single standard deck.
const CardsPerDeck = 52

// DefaultCutFraction is the portion of the shoe dealt before a reshuffle
// is required. Dealing past the cut point is flagged, never performed.
const DefaultCutFraction = 0.8

// Shoe holds one or more decks of cards and deals them sequentially.
// Cards between the deal pointer and the end of the slice are still live;
// crossing the cut point flags the shoe for a reshuffle before the next
// round's deal.
type Shoe struct {
	cards        []Card
	rng          *rand.Rand
	deal         int // index of the next card to deal
	cut          int // reshuffle once deal reaches this index
	cutFraction  float64
	needsShuffle bool
}

// NewShoe creates a shoe of decks*52 cards in fixed suit/rank order.
// The shoe is not shuffled; NeedsShuffle reports true until Shuffle is
// called. decks must be at least 1.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		panic(fmt.Sprintf("deck: shoe requires at least one deck, got %d", decks))
	}

	s := &Shoe{
		cards:        make([]Card, 0, decks*CardsPerDeck),
		rng:          rng,
		cutFraction:  DefaultCutFraction,
		needsShuffle: true,
	}
	for d := 0; d < decks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.cut = s.cutIndex()

	return s
}

// NewStackedShoe creates a shoe that deals the given cards in order and
// never flags a reshuffle. Used for deterministic round tests.
func NewStackedShoe(cards ...Card) *Shoe {
	s := &Shoe{
		cards:       append([]Card(nil), cards...),
		cutFraction: 1,
	}
	s.cut = len(s.cards) + 1
	return s
}

// SetCutFraction overrides the fraction of the shoe dealt before a
// reshuffle is flagged. Fractions outside (0, 1] are ignored.
func (s *Shoe) SetCutFraction(f float64) {
	if f <= 0 || f > 1 {
		return
	}
	s.cutFraction = f
	s.cut = s.cutIndex()
}

func (s *Shoe) cutIndex() int {
	cut := int(float64(len(s.cards)) * s.cutFraction)
	if cut < 1 {
		cut = 1
	}
	return cut
}

// Shuffle randomizes the order of the full shoe in place (Fisher-Yates),
// resets the deal pointer and recomputes the cut point.
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}

	s.deal = 0
	s.cut = s.cutIndex()
	s.needsShuffle = false
}

// Deal returns the card at the deal pointer and advances it.
// Reaching the cut point flags the shoe for a reshuffle. Dealing past the
// end of the shoe is a programming error: the round loop must reshuffle
// whenever NeedsShuffle is true before dealing a new round.
func (s *Shoe) Deal() Card {
	if s.deal >= len(s.cards) {
		panic("deck: shoe exhausted; reshuffle was skipped")
	}

	card := s.cards[s.deal]
	s.deal++
	if s.deal >= s.cut {
		s.needsShuffle = true
	}
	return card
}

// NeedsShuffle reports whether the cut point has been crossed (or the shoe
// has never been shuffled).
func (s *Shoe) NeedsShuffle() bool {
	return s.needsShuffle
}

// Remaining returns the number of cards left before the shoe is exhausted.
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.deal
}

// Size returns the total number of cards in the shoe.
func (s *Shoe) Size() int {
	return len(s.cards)
}

// CutPoint returns the index at which a reshuffle is flagged.
func (s *Shoe) CutPoint() int {
	return s.cut
}

// Cards returns the shoe's cards in their current order. The returned
// slice is a copy; mutating it does not affect the shoe.
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
