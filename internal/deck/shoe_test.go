package deck

import (
	"testing"

	"github.com/lox/blackjack-cli/internal/randutil"
)

func TestNewShoeSize(t *testing.T) {
	tests := []struct {
		decks    int
		expected int
	}{
		{1, 52},
		{2, 104},
		{6, 312},
	}

	for _, tt := range tests {
		s := NewShoe(tt.decks, randutil.New(1))
		if s.Size() != tt.expected {
			t.Errorf("NewShoe(%d) size = %d, want %d", tt.decks, s.Size(), tt.expected)
		}
		if s.Remaining() != tt.expected {
			t.Errorf("NewShoe(%d) remaining = %d, want %d", tt.decks, s.Remaining(), tt.expected)
		}
		if !s.NeedsShuffle() {
			t.Errorf("NewShoe(%d) must need a shuffle before first deal", tt.decks)
		}
	}
}

func TestNewShoeZeroDecksPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero decks")
		}
	}()
	NewShoe(0, randutil.New(1))
}

func TestShuffleIsPermutation(t *testing.T) {
	s := NewShoe(2, randutil.New(1968))
	before := countCards(s.Cards())
	s.Shuffle()
	after := countCards(s.Cards())

	if len(before) != len(after) {
		t.Fatalf("card multiset size changed: %d != %d", len(before), len(after))
	}
	for card, n := range before {
		if after[card] != n {
			t.Errorf("card %s count changed: %d -> %d", card, n, after[card])
		}
	}
	if s.NeedsShuffle() {
		t.Error("needs-shuffle must be false immediately after Shuffle")
	}
	if s.Remaining() != s.Size() {
		t.Errorf("deal pointer not reset: remaining %d, size %d", s.Remaining(), s.Size())
	}
}

func TestDealAdvancesPointerInOrder(t *testing.T) {
	s := NewShoe(1, randutil.New(42))
	s.Shuffle()

	want := s.Cards()
	for i := 0; i < 10; i++ {
		got := s.Deal()
		if got != want[i] {
			t.Errorf("deal %d = %s, want %s", i, got, want[i])
		}
	}
	if s.Remaining() != 42 {
		t.Errorf("remaining = %d, want 42", s.Remaining())
	}
}

func TestCutPointFlagsReshuffle(t *testing.T) {
	s := NewShoe(1, randutil.New(7))
	s.Shuffle()

	if got, want := s.CutPoint(), 41; got != want { // 52 * 0.8
		t.Fatalf("cut point = %d, want %d", got, want)
	}

	for i := 0; i < s.CutPoint()-1; i++ {
		s.Deal()
		if s.NeedsShuffle() {
			t.Fatalf("needs-shuffle set early after %d deals", i+1)
		}
	}
	s.Deal() // crosses the cut point
	if !s.NeedsShuffle() {
		t.Error("needs-shuffle must be set once the cut point is reached")
	}

	// Dealing remains legal up to the end of the shoe.
	for s.Remaining() > 0 {
		s.Deal()
	}
}

func TestSetCutFraction(t *testing.T) {
	s := NewShoe(1, randutil.New(7))
	s.SetCutFraction(0.5)
	if got := s.CutPoint(); got != 26 {
		t.Errorf("cut point = %d, want 26", got)
	}

	// Out-of-range fractions are ignored.
	s.SetCutFraction(0)
	s.SetCutFraction(1.5)
	if got := s.CutPoint(); got != 26 {
		t.Errorf("cut point changed by invalid fraction: %d", got)
	}
}

func TestExhaustedShoePanics(t *testing.T) {
	s := NewShoe(1, randutil.New(3))
	s.Shuffle()
	for s.Remaining() > 0 {
		s.Deal()
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when dealing from an exhausted shoe")
		}
	}()
	s.Deal()
}

func TestSeededShuffleIsReproducible(t *testing.T) {
	a := NewShoe(1, randutil.New(1968))
	b := NewShoe(1, randutil.New(1968))
	a.Shuffle()
	b.Shuffle()

	ac, bc := a.Cards(), b.Cards()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("same seed produced different shuffles at index %d: %s != %s", i, ac[i], bc[i])
		}
	}
}

func countCards(cards []Card) map[Card]int {
	counts := make(map[Card]int, len(cards))
	for _, c := range cards {
		counts[c]++
	}
	return counts
}
