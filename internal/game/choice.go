package game

// Choice is a player decision for one hand during their turn.
type Choice int

const (
	Stand Choice = iota
	Hit
	Double
	Split
)

// String returns the string representation of a choice
func (c Choice) String() string {
	switch c {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Double:
		return "double down"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// AvailableChoices derives the legal choice set for a hand. The same
// function feeds both the prompt builder and the turn loop so the two
// can never disagree about what is legal: Stand and Hit are always
// offered, Double on any two-card hand the bankroll can cover, Split
// only on two cards of equal value with a covered duplicate bet.
func AvailableChoices(h *Hand, bankroll int) []Choice {
	choices := []Choice{Stand, Hit}
	if h.CanDouble(bankroll) {
		choices = append(choices, Double)
	}
	if h.CanSplit(bankroll) {
		choices = append(choices, Split)
	}
	return choices
}
