// Package game implements the core blackjack rules engine for one table
// of up to five players against the dealer.
//
// The main type is Table, which owns the shoe, the dealer and the seated
// players across rounds and runs the per-round state machine: betting,
// the initial deal, the dealer blackjack check, each player's turn
// (stand, hit, double down, split), the dealer's turn, and settlement.
//
// # Basic Usage
//
//	rng := randutil.New(time.Now().UnixNano())
//	t := game.NewTable([]string{"Alice", "Bob"}, 1000, 1, rng, agent)
//	err := t.Run(ctx)
//
// The agent supplies bets and per-hand choices; the table publishes
// every state change on its event bus for rendering. The round loop
// blocks only on the agent, never on subscribers.
//
// # Deterministic Testing
//
// A fixed-seed rng reproduces every shuffle:
//
//	t := game.NewTable(names, 1000, 1, randutil.New(1968), agent)
//
// For exact card orders, stack the shoe and disable pacing:
//
//	shoe := deck.NewStackedShoe(cards...)
//	t := game.NewTable(names, 1000, 1, rng, agent,
//	    game.WithShoe(shoe), game.WithPace(0))
//
// # Architecture
//
// Table delegates to specialized components:
//   - deck.Shoe: multi-deck card source with cut-point reshuffle policy
//   - Hand: per-bet card sequence with soft/hard ace scoring
//   - Agent: the external decision source (the TUI in cmd/blackjack)
//   - EventBus: the external render sink
//
// The round loop is strictly single-threaded; the Table is the sole
// owner of all mutable game state for the session's lifetime.
package game
