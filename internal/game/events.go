package game

import (
	"time"

	"github.com/lox/blackjack-cli/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeShuffle      EventType = "shuffle"
	EventTypeDeal         EventType = "deal"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerReveal EventType = "dealer_reveal"
	EventTypeDealerDraw   EventType = "dealer_draw"
	EventTypeSettlement   EventType = "settlement"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypeMessage      EventType = "message"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any state change the table reports for rendering.
// Publishing never blocks game logic; subscribers render asynchronously
// or not at all.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandSnapshot is a read-only copy of one hand for display.
type HandSnapshot struct {
	Cards []deck.Card
	Score int
	Soft  bool
	Bet   int
}

// PlayerSnapshot is a read-only copy of one player's state for display.
type PlayerSnapshot struct {
	Name     string
	Bankroll int
	Hands    []HandSnapshot
	Active   bool
}

// DealerSnapshot is a read-only copy of the dealer's state. Cards holds
// all dealt cards in order; the first is the hole card and must be
// rendered hidden while FaceUp is false.
type DealerSnapshot struct {
	Cards  []deck.Card
	Score  int
	FaceUp bool
}

// TableSnapshot captures the dealer and every seated player after a
// state change.
type TableSnapshot struct {
	Round   int
	Dealer  DealerSnapshot
	Players []PlayerSnapshot
}

// RoundStartEvent is published after hands are cleared for a new round.
type RoundStartEvent struct {
	Round     int
	Snapshot  TableSnapshot
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// ShuffleEvent is published whenever the shoe is shuffled.
type ShuffleEvent struct {
	Initial   bool // first shuffle of the session rather than a cut-point reshuffle
	timestamp time.Time
}

func (e ShuffleEvent) EventType() EventType { return EventTypeShuffle }
func (e ShuffleEvent) Timestamp() time.Time { return e.timestamp }

// DealEvent is published after the initial two-card deal completes.
type DealEvent struct {
	Snapshot  TableSnapshot
	timestamp time.Time
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }
func (e DealEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published when a player resolves part of a turn.
type PlayerActionEvent struct {
	Player    string
	HandNum   int
	Choice    Choice
	Hand      HandSnapshot
	Busted    bool
	Snapshot  TableSnapshot
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// DealerRevealEvent is published when the hole card is turned face up.
type DealerRevealEvent struct {
	Dealer    DealerSnapshot
	timestamp time.Time
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }
func (e DealerRevealEvent) Timestamp() time.Time { return e.timestamp }

// DealerDrawEvent is published for each card the dealer hits.
type DealerDrawEvent struct {
	Card      deck.Card
	Dealer    DealerSnapshot
	timestamp time.Time
}

func (e DealerDrawEvent) EventType() EventType { return EventTypeDealerDraw }
func (e DealerDrawEvent) Timestamp() time.Time { return e.timestamp }

// SettlementOutcome describes how one hand settled.
type SettlementOutcome int

const (
	OutcomeLoss SettlementOutcome = iota
	OutcomePush
	OutcomeWin
	OutcomeBlackjack
)

// String returns the string representation of a settlement outcome
func (o SettlementOutcome) String() string {
	switch o {
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	case OutcomeWin:
		return "win"
	case OutcomeBlackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// SettlementEvent is published once per hand during settlement.
type SettlementEvent struct {
	Player    string
	HandNum   int
	Outcome   SettlementOutcome
	Score     int
	Payout    int // total returned to the bankroll, including the stake
	Bankroll  int // bankroll after the payout
	timestamp time.Time
}

func (e SettlementEvent) EventType() EventType { return EventTypeSettlement }
func (e SettlementEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published after settlement with final bankrolls.
type RoundEndEvent struct {
	Round           int
	DealerBlackjack bool
	DealerScore     int
	Snapshot        TableSnapshot
	timestamp       time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// MessageEvent carries free-form table talk ("Dealer is showing an Ace").
type MessageEvent struct {
	Text      string
	timestamp time.Time
}

// NewMessageEvent builds a message event stamped with the current time.
func NewMessageEvent(text string) MessageEvent {
	return MessageEvent{Text: text, timestamp: time.Now()}
}

func (e MessageEvent) EventType() EventType { return EventTypeMessage }
func (e MessageEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, s := range bus.subscribers {
		if s == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
