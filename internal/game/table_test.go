package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/randutil"
)

// scriptedAgent replays canned bets and choices, recording every request.
// An exhausted bet script quits; an exhausted choice script stands.
type scriptedAgent struct {
	bets    []BetResponse
	choices []Choice

	betReqs    []BetRequest
	choiceReqs []ChoiceRequest
}

func (a *scriptedAgent) Bet(_ context.Context, req BetRequest) (BetResponse, error) {
	a.betReqs = append(a.betReqs, req)
	if len(a.bets) == 0 {
		return BetResponse{Quit: true}, nil
	}
	resp := a.bets[0]
	a.bets = a.bets[1:]
	return resp, nil
}

func (a *scriptedAgent) Choose(_ context.Context, req ChoiceRequest) (Choice, error) {
	a.choiceReqs = append(a.choiceReqs, req)
	if len(a.choices) == 0 {
		return Stand, nil
	}
	c := a.choices[0]
	a.choices = a.choices[1:]
	return c, nil
}

// eventCollector records every event type published during a round.
type eventCollector struct {
	events []GameEvent
}

func (c *eventCollector) OnEvent(e GameEvent) {
	c.events = append(c.events, e)
}

func (c *eventCollector) types() []EventType {
	out := make([]EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType())
	}
	return out
}

func stackedTable(t *testing.T, names []string, agent Agent, cards ...deck.Card) *Table {
	t.Helper()
	return NewTable(names, DefaultBankroll, 1, randutil.New(1), agent,
		WithShoe(deck.NewStackedShoe(cards...)),
		WithPace(0),
	)
}

func TestCasinoDealingOrder(t *testing.T) {
	// Two passes: every player one card, then the dealer.
	cards := []deck.Card{
		card(deck.Two, deck.Spades),   // Alice, first pass
		card(deck.Three, deck.Spades), // Bob, first pass
		card(deck.Four, deck.Spades),  // dealer hole
		card(deck.Five, deck.Spades),  // Alice, second pass
		card(deck.Six, deck.Spades),   // Bob, second pass
		card(deck.Seven, deck.Spades), // dealer upcard
	}
	agent := &scriptedAgent{
		bets: []BetResponse{{Amount: 10}, {Amount: 10}},
		// Stand everything via exhausted script.
	}
	tbl := stackedTable(t, []string{"Alice", "Bob"}, agent,
		append(cards, card(deck.King, deck.Spades), card(deck.Nine, deck.Hearts))...)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0].Hands[0].Cards()
	bob := tbl.Players[1].Hands[0].Cards()
	dealer := tbl.Dealer.Hand.Cards()

	assert.Equal(t, []deck.Card{card(deck.Two, deck.Spades), card(deck.Five, deck.Spades)}, alice)
	assert.Equal(t, []deck.Card{card(deck.Three, deck.Spades), card(deck.Six, deck.Spades)}, bob)
	assert.Equal(t, card(deck.Four, deck.Spades), dealer[0], "hole card is dealt first")
	assert.Equal(t, card(deck.Seven, deck.Spades), dealer[1])
}

func TestPlayerBlackjackPaysFiveForTwo(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ace, deck.Spades), // Alice
		card(deck.Ten, deck.Hearts), // dealer hole
		card(deck.Ten, deck.Diamonds), // Alice
		card(deck.Nine, deck.Clubs), // dealer upcard: 19, stands
	)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0]
	assert.True(t, alice.Hands[0].IsBlackjack())
	assert.Equal(t, 21, alice.Hands[0].Score())
	// 1000 - 100 bet + 250 payout.
	assert.Equal(t, 1150, alice.Bankroll)
}

func TestOrdinaryWinPaysTwoForOne(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),   // Alice
		card(deck.Ten, deck.Hearts),   // dealer hole
		card(deck.Queen, deck.Clubs),  // Alice: 20
		card(deck.Seven, deck.Clubs),  // dealer upcard: 17, stands
	)

	require.NoError(t, tbl.playRound(context.Background()))
	assert.Equal(t, 1100, tbl.Players[0].Bankroll) // 1000 - 100 + 200
}

func TestPushReturnsBet(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),  // Alice
		card(deck.Ten, deck.Hearts),  // dealer hole
		card(deck.Nine, deck.Clubs),  // Alice: 19
		card(deck.Nine, deck.Spades), // dealer upcard: 19, stands
	)

	require.NoError(t, tbl.playRound(context.Background()))
	assert.Equal(t, 1000, tbl.Players[0].Bankroll)
}

func TestDealerBlackjackSkipsPlayerTurns(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Five, deck.Spades), // Alice
		card(deck.Ace, deck.Clubs),   // dealer hole
		card(deck.Six, deck.Diamonds), // Alice: 11
		card(deck.King, deck.Hearts), // dealer upcard: blackjack
	)

	require.NoError(t, tbl.playRound(context.Background()))

	assert.Empty(t, agent.choiceReqs, "no player choices after a dealer blackjack")
	assert.Equal(t, 900, tbl.Players[0].Bankroll)
	assert.True(t, tbl.Dealer.FaceUp, "dealer reveals on blackjack")
	assert.Equal(t, 21, tbl.Dealer.Hand.Score())
}

func TestDealerHitsToSeventeen(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),  // Alice
		card(deck.Ten, deck.Hearts),  // dealer hole
		card(deck.Ten, deck.Clubs),   // Alice: 20
		card(deck.Six, deck.Spades),  // dealer upcard: 16, must hit
		card(deck.Five, deck.Hearts), // dealer draw: 21, stands
	)

	require.NoError(t, tbl.playRound(context.Background()))

	assert.Equal(t, 3, tbl.Dealer.Hand.Count())
	assert.Equal(t, 21, tbl.Dealer.Hand.Score())
	assert.Equal(t, 900, tbl.Players[0].Bankroll) // 20 < 21: loss
}

func TestDealerBustPaysRemainingHands(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),   // Alice
		card(deck.Ten, deck.Hearts),   // dealer hole
		card(deck.Two, deck.Clubs),    // Alice: 12
		card(deck.Six, deck.Spades),   // dealer upcard: 16
		card(deck.King, deck.Diamonds), // dealer draw: 26, bust
	)

	require.NoError(t, tbl.playRound(context.Background()))
	assert.Greater(t, tbl.Dealer.Hand.Score(), 21)
	assert.Equal(t, 1100, tbl.Players[0].Bankroll)
}

func TestDoubleDown(t *testing.T) {
	agent := &scriptedAgent{
		bets:    []BetResponse{{Amount: 100}},
		choices: []Choice{Double},
	}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Six, deck.Spades),   // Alice
		card(deck.Ten, deck.Hearts),   // dealer hole
		card(deck.Five, deck.Diamonds), // Alice: 11
		card(deck.Seven, deck.Clubs),  // dealer upcard: 17, stands
		card(deck.Nine, deck.Diamonds), // Alice's double card: 20
	)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0]
	require.Len(t, agent.choiceReqs, 1, "no further choice after a double down")
	assert.Contains(t, agent.choiceReqs[0].Choices, Double)
	assert.Equal(t, 200, alice.Hands[0].Bet)
	assert.Equal(t, 3, alice.Hands[0].Count())
	// 1000 - 100 - 100, then a 20 beats 17 for 2x200.
	assert.Equal(t, 1200, alice.Bankroll)
}

func TestHitUntilBust(t *testing.T) {
	agent := &scriptedAgent{
		bets:    []BetResponse{{Amount: 100}},
		choices: []Choice{Hit, Hit},
	}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),   // Alice
		card(deck.Ten, deck.Hearts),   // dealer hole
		card(deck.Six, deck.Diamonds), // Alice: 16
		card(deck.Seven, deck.Clubs),  // dealer upcard: 17
		card(deck.Nine, deck.Diamonds), // Alice hits: 25, bust
	)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0]
	require.Len(t, agent.choiceReqs, 1, "bust ends the turn without another prompt")
	assert.True(t, alice.Hands[0].IsBust())
	assert.Equal(t, 900, alice.Bankroll)
}

func TestSplitPlaysBothHands(t *testing.T) {
	agent := &scriptedAgent{
		bets:    []BetResponse{{Amount: 50}},
		choices: []Choice{Split, Stand, Stand},
	}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Eight, deck.Clubs),  // Alice
		card(deck.Ten, deck.Hearts),   // dealer hole
		card(deck.Eight, deck.Diamonds), // Alice: 8,8
		card(deck.Nine, deck.Clubs),   // dealer upcard: 19, stands
		card(deck.Three, deck.Hearts), // first split hand's card
		card(deck.King, deck.Spades),  // second split hand's card
	)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0]
	require.Len(t, alice.Hands, 2)
	assert.Equal(t, 50, alice.Hands[0].Bet)
	assert.Equal(t, 50, alice.Hands[1].Bet)
	assert.Equal(t, 2, alice.Hands[0].Count())
	assert.Equal(t, 2, alice.Hands[1].Count())

	// Both hands were prompted: the split prompt, then one per hand.
	require.Len(t, agent.choiceReqs, 3)
	assert.Equal(t, 1, agent.choiceReqs[1].HandNum)
	assert.Equal(t, 2, agent.choiceReqs[2].HandNum)
	assert.Equal(t, 2, agent.choiceReqs[2].NumHands)

	// Hand one: 8+3=11 loses to 19. Hand two: 8+K=18 loses to 19.
	// 1000 - 50 - 50 with no payouts.
	assert.Equal(t, 900, alice.Bankroll)
}

func TestSplitAcesAreNotNaturals(t *testing.T) {
	agent := &scriptedAgent{
		bets:    []BetResponse{{Amount: 100}},
		choices: []Choice{Split, Stand, Stand},
	}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ace, deck.Spades),  // Alice
		card(deck.Ten, deck.Hearts),  // dealer hole
		card(deck.Ace, deck.Diamonds), // Alice: A,A
		card(deck.Nine, deck.Clubs),  // dealer upcard: 19, stands
		card(deck.King, deck.Clubs),  // first split hand: A,K = 21
		card(deck.Five, deck.Clubs),  // second split hand: A,5 = 16
	)

	require.NoError(t, tbl.playRound(context.Background()))

	alice := tbl.Players[0]
	assert.Equal(t, 21, alice.Hands[0].Score())
	assert.False(t, alice.Hands[0].IsBlackjack(), "a split 21 is not a natural")
	// 1000 - 100 - 100, hand one wins 2x100, hand two loses.
	assert.Equal(t, 1000, alice.Bankroll)
}

func TestQuitDuringBettingRemovesOnlyThatPlayer(t *testing.T) {
	agent := &scriptedAgent{
		bets: []BetResponse{{Quit: true}, {Amount: 100}},
	}
	tbl := stackedTable(t, []string{"Alice", "Bob"}, agent,
		// Only Bob is dealt: Bob, hole, Bob, upcard.
		card(deck.Ten, deck.Spades),
		card(deck.Ten, deck.Hearts),
		card(deck.Nine, deck.Clubs),
		card(deck.Seven, deck.Clubs),
	)

	require.NoError(t, tbl.playRound(context.Background()))

	assert.False(t, tbl.Players[0].Active)
	assert.True(t, tbl.Players[1].Active)
	assert.Equal(t, 0, tbl.Players[0].Hands[0].Count(), "a quit player is not dealt in")
	assert.Equal(t, 2, tbl.Players[1].Hands[0].Count())
	assert.Equal(t, 1100, tbl.Players[1].Bankroll) // 19 beats 17
}

func TestBrokePlayerLeavesTable(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 1000}}}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),  // Alice
		card(deck.Ten, deck.Hearts),  // dealer hole
		card(deck.Six, deck.Clubs),   // Alice: 16
		card(deck.Nine, deck.Clubs),  // dealer upcard: 19
	)

	require.NoError(t, tbl.playRound(context.Background()))

	assert.Equal(t, 0, tbl.Players[0].Bankroll)
	assert.False(t, tbl.Players[0].Active)
	assert.Empty(t, tbl.ActivePlayers())
}

func TestIllegalChoiceIsAnError(t *testing.T) {
	agent := &scriptedAgent{
		bets:    []BetResponse{{Amount: 100}},
		choices: []Choice{Split}, // not offered on 10,9
	}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),
		card(deck.Ten, deck.Hearts),
		card(deck.Nine, deck.Clubs),
		card(deck.Seven, deck.Clubs),
	)

	err := tbl.playRound(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not offered")
}

func TestDealerAceAnnouncesInsurance(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	collector := &eventCollector{}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),  // Alice
		card(deck.Five, deck.Hearts), // dealer hole
		card(deck.Ten, deck.Clubs),   // Alice: 20
		card(deck.Ace, deck.Spades),  // dealer upcard: Ace, no blackjack (16)
		card(deck.Five, deck.Clubs),  // dealer draw: 21... scores: A+5=16 soft, +5=21
	)
	tbl.Events().Subscribe(collector)

	require.NoError(t, tbl.playRound(context.Background()))

	found := false
	for _, e := range collector.events {
		if m, ok := e.(MessageEvent); ok && m.Text == "Dealer is showing an Ace." {
			found = true
		}
	}
	assert.True(t, found, "an ace upcard announces the insurance checkpoint")
}

func TestRoundEventSequence(t *testing.T) {
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 100}}}
	collector := &eventCollector{}
	tbl := stackedTable(t, []string{"Alice"}, agent,
		card(deck.Ten, deck.Spades),
		card(deck.Ten, deck.Hearts),
		card(deck.Nine, deck.Clubs),
		card(deck.Seven, deck.Clubs),
	)
	tbl.Events().Subscribe(collector)

	require.NoError(t, tbl.playRound(context.Background()))

	types := collector.types()
	require.NotEmpty(t, types)
	assert.Equal(t, EventTypeRoundStart, types[0])
	assert.Equal(t, EventTypeRoundEnd, types[len(types)-1])
	assert.Contains(t, types, EventTypeDeal)
	assert.Contains(t, types, EventTypePlayerAction)
	assert.Contains(t, types, EventTypeDealerReveal)
	assert.Contains(t, types, EventTypeSettlement)
}

func TestRunEndsWhenEveryoneQuits(t *testing.T) {
	// One scripted round, then the exhausted bet script quits.
	agent := &scriptedAgent{bets: []BetResponse{{Amount: 10}}}
	tbl := NewTable([]string{"Alice"}, DefaultBankroll, 1, randutil.New(1968), agent,
		WithPace(0))

	require.NoError(t, tbl.Run(context.Background()))
	assert.Empty(t, tbl.ActivePlayers())
	assert.Equal(t, 2, tbl.Round())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agent := &scriptedAgent{}
	tbl := NewTable([]string{"Alice"}, DefaultBankroll, 1, randutil.New(1), agent, WithPace(0))

	err := tbl.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPauseUsesInjectedClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	trap := mockClock.Trap().NewTimer()
	defer trap.Close()

	agent := &scriptedAgent{}
	tbl := NewTable([]string{"Alice"}, DefaultBankroll, 1, randutil.New(1), agent,
		WithClock(mockClock))

	done := make(chan struct{})
	go func() {
		defer close(done)
		tbl.pause(ctx)
	}()

	call := trap.MustWait(ctx)
	call.MustRelease(ctx)
	assert.Equal(t, DefaultPace, call.Duration)

	mockClock.Advance(DefaultPace).MustWait(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("pause did not return after the clock advanced")
	}
}

func TestPauseReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockClock := quartz.NewMock(t)
	agent := &scriptedAgent{}
	tbl := NewTable([]string{"Alice"}, DefaultBankroll, 1, randutil.New(1), agent,
		WithClock(mockClock))

	// The timer never fires on a mock clock; cancellation unblocks it.
	tbl.pause(ctx)
}

func TestReshuffleBetweenRounds(t *testing.T) {
	// A single deck with a 52-card shoe: round one leaves fewer than the
	// cut threshold, so round two reshuffles before dealing.
	agent := &scriptedAgent{
		bets: []BetResponse{{Amount: 10}, {Amount: 10}},
	}
	collector := &eventCollector{}
	tbl := NewTable([]string{"Alice"}, DefaultBankroll, 1, randutil.New(7), agent, WithPace(0))
	tbl.Shoe.SetCutFraction(0.05) // cut after ~2 cards so round one crosses it
	tbl.Events().Subscribe(collector)

	require.NoError(t, tbl.Run(context.Background()))

	shuffles := 0
	for _, e := range collector.events {
		if _, ok := e.(ShuffleEvent); ok {
			shuffles++
		}
	}
	assert.GreaterOrEqual(t, shuffles, 2, "initial shuffle plus at least one reshuffle")
}
