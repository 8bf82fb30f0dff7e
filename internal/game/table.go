package game

import (
	"context"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack-cli/internal/deck"
)

// Payout multipliers, applied to the hand's bet and returned to the
// bankroll including the stake: a natural blackjack pays 3:2 plus the
// stake, an ordinary win pays even money plus the stake.
const (
	blackjackPayoutNum = 5 // bet * 5 / 2
	blackjackPayoutDen = 2
	winPayout          = 2
)

// DefaultPace is the pause after dealer draws and action echoes so a
// human can follow the table.
const DefaultPace = 500 * time.Millisecond

// Table owns the shoe, the dealer and the seated players for the whole
// session. The round loop has exclusive mutable access to all of them;
// nothing else mutates table state, so no locking is involved.
type Table struct {
	Players []*Player
	Dealer  *Dealer
	Shoe    *deck.Shoe

	agent      Agent
	events     EventBus
	logger     *log.Logger
	clock      quartz.Clock
	pace       time.Duration
	standScore int

	round    int
	shuffled bool
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithLogger sets the structured logger for the table.
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// WithEventBus sets the bus table state changes are published on.
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) { t.events = bus }
}

// WithClock injects the clock used for pacing. Tests combine this with
// WithPace to run instantly.
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithPace sets the pause between dealer draws and action echoes.
// A zero pace disables pacing entirely.
func WithPace(pace time.Duration) TableOption {
	return func(t *Table) { t.pace = pace }
}

// WithDealerStandScore overrides the total the dealer stands on.
// Values outside [12, 21] are ignored.
func WithDealerStandScore(score int) TableOption {
	return func(t *Table) {
		if score >= 12 && score <= BlackjackScore {
			t.standScore = score
		}
	}
}

// WithShoe replaces the shoe, letting tests stack a known card order.
func WithShoe(shoe *deck.Shoe) TableOption {
	return func(t *Table) {
		t.Shoe = shoe
		t.shuffled = !shoe.NeedsShuffle()
	}
}

// NewTable seats the named players with the given bankroll and builds a
// shoe of decks*52 cards. The agent supplies bets and choices; the rng
// drives every shuffle, so a fixed-seed rng reproduces a session.
func NewTable(names []string, bankroll, decks int, rng *rand.Rand, agent Agent, opts ...TableOption) *Table {
	players := make([]*Player, 0, len(names))
	for _, name := range names {
		players = append(players, NewPlayer(name, bankroll))
	}

	t := &Table{
		Players: players,
		Dealer:  NewDealer(),
		Shoe:    deck.NewShoe(decks, rng),
		agent:   agent,
		events:  NewEventBus(),
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
		pace:    DefaultPace,

		standScore: dealerStandScore,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Events returns the bus table state changes are published on.
func (t *Table) Events() EventBus {
	return t.events
}

// Round returns the number of the round in progress, starting at 1.
func (t *Table) Round() int {
	return t.round
}

// ActivePlayers returns the players still in the session, in seating order.
func (t *Table) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

// Run plays rounds until every player has quit or gone broke, or the
// context is cancelled.
func (t *Table) Run(ctx context.Context) error {
	t.logger.Info("starting session", "players", len(t.Players), "shoe", t.Shoe.Size())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(t.ActivePlayers()) == 0 {
			t.logger.Info("all players have left the table", "rounds", t.round)
			return nil
		}
		if err := t.playRound(ctx); err != nil {
			return err
		}
	}
}

// snapshot captures the dealer and all players for the render sink.
func (t *Table) snapshot() TableSnapshot {
	snap := TableSnapshot{
		Round: t.round,
		Dealer: DealerSnapshot{
			Cards:  t.Dealer.Hand.Cards(),
			Score:  t.Dealer.Hand.Score(),
			FaceUp: t.Dealer.FaceUp,
		},
	}
	for _, p := range t.Players {
		ps := PlayerSnapshot{
			Name:     p.Name,
			Bankroll: p.Bankroll,
			Active:   p.Active,
		}
		for _, h := range p.Hands {
			ps.Hands = append(ps.Hands, HandSnapshot{
				Cards: h.Cards(),
				Score: h.Score(),
				Soft:  h.IsSoft(),
				Bet:   h.Bet,
			})
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}

func (t *Table) message(text string) {
	t.events.Publish(NewMessageEvent(text))
}

// pause waits for the pacing interval on the injected clock, returning
// early if the context is cancelled.
func (t *Table) pause(ctx context.Context) {
	if t.pace <= 0 {
		return
	}
	timer := t.clock.NewTimer(t.pace)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
