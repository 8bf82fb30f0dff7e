package game

import (
	"context"
	"fmt"
	"time"
)

// dealerStandScore is the total at which the dealer stands, soft or hard.
const dealerStandScore = 17

// playRound runs one complete round: reset, betting, dealing, dealer
// blackjack check, player turns, dealer turn, settlement. Players are
// always processed in seating order and hands in creation order.
func (t *Table) playRound(ctx context.Context) error {
	t.round++
	t.reset()

	quitAll, err := t.collectBets(ctx)
	if err != nil {
		return fmt.Errorf("collecting bets: %w", err)
	}
	if quitAll {
		return nil
	}

	t.dealHands()

	dealerBlackjack := t.checkDealerHand()
	if !dealerBlackjack {
		if err := t.playHands(ctx); err != nil {
			return fmt.Errorf("playing hands: %w", err)
		}
		t.playDealerHand(ctx)
	}

	t.settle(dealerBlackjack)

	t.events.Publish(RoundEndEvent{
		Round:           t.round,
		DealerBlackjack: dealerBlackjack,
		DealerScore:     t.Dealer.Hand.Score(),
		Snapshot:        t.snapshot(),
		timestamp:       time.Now(),
	})
	return nil
}

// reset clears every hand chain and hides the dealer's hole card.
func (t *Table) reset() {
	for _, p := range t.Players {
		p.ResetForRound()
	}
	t.Dealer.ResetForRound()

	t.logger.Debug("round reset", "round", t.round)
	t.events.Publish(RoundStartEvent{
		Round:     t.round,
		Snapshot:  t.snapshot(),
		timestamp: time.Now(),
	})
}

// collectBets requests a bet from each active player in seating order.
// A quit response removes the player for the rest of the session.
// Returns true when nobody remains to play the round.
func (t *Table) collectBets(ctx context.Context) (bool, error) {
	for _, p := range t.Players {
		if !p.Active {
			continue
		}

		resp, err := t.agent.Bet(ctx, BetRequest{Player: p.Name, Bankroll: p.Bankroll})
		if err != nil {
			return false, err
		}
		if resp.Quit {
			p.Active = false
			t.logger.Info("player left the table", "player", p.Name, "bankroll", p.Bankroll)
			t.message(fmt.Sprintf("%s leaves the table.", p.Name))
			continue
		}

		p.PlaceBet(resp.Amount)
		t.logger.Debug("bet placed", "player", p.Name, "bet", resp.Amount, "bankroll", p.Bankroll)
	}

	return len(t.ActivePlayers()) == 0, nil
}

// dealHands reshuffles if the cut point was crossed, then deals two
// cards each in casino order: one card to every player, one to the
// dealer, then the second pass.
func (t *Table) dealHands() {
	if t.Shoe.NeedsShuffle() {
		initial := !t.shuffled
		t.Shoe.Shuffle()
		t.shuffled = true
		t.logger.Info("shuffled shoe", "initial", initial, "cards", t.Shoe.Size(), "cut", t.Shoe.CutPoint())
		t.events.Publish(ShuffleEvent{Initial: initial, timestamp: time.Now()})
		if initial {
			t.message("Shuffling the shoe.")
		} else {
			t.message("Re-shuffling the shoe.")
		}
	}

	t.message("Dealing cards.")
	for pass := 0; pass < 2; pass++ {
		for _, p := range t.Players {
			if p.Active {
				p.Hands[0].AddCard(t.Shoe.Deal())
			}
		}
		t.Dealer.Hand.AddCard(t.Shoe.Deal())
	}

	t.events.Publish(DealEvent{Snapshot: t.snapshot(), timestamp: time.Now()})
}

// checkDealerHand checks for a dealer natural when the upcard is a
// ten-value card or an Ace. An Ace is the insurance checkpoint; the
// offer itself is announced but not taken, matching the table rules in
// scope. Returns true when the dealer has blackjack, which settles the
// round immediately with every hand losing.
func (t *Table) checkDealerHand() bool {
	upcard, ok := t.Dealer.Upcard()
	if !ok || upcard.Value() < 10 {
		return false
	}

	if upcard.IsAce() {
		t.logger.Info("dealer showing an ace")
		t.message("Dealer is showing an Ace.")
	}

	if t.Dealer.Hand.Score() == BlackjackScore {
		t.logger.Info("dealer has blackjack")
		t.Dealer.FaceUp = true
		t.events.Publish(DealerRevealEvent{
			Dealer:    t.snapshot().Dealer,
			timestamp: time.Now(),
		})
		t.message("Dealer has blackjack! Everybody loses.")
		return true
	}

	return false
}

// playHands runs each active player's turn, hand by hand. A split
// inserts its new hand directly after the current one, so the index loop
// reaches it in the same pass.
func (t *Table) playHands(ctx context.Context) error {
	for _, p := range t.Players {
		if !p.Active {
			continue
		}

		for i := 0; i < len(p.Hands); i++ {
			if err := t.playHand(ctx, p, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// playHand offers choices for one hand until it is resolved by a stand,
// a bust, or a double down.
func (t *Table) playHand(ctx context.Context, p *Player, i int) error {
	for {
		hand := p.Hands[i]
		choices := AvailableChoices(hand, p.Bankroll)

		choice, err := t.agent.Choose(ctx, ChoiceRequest{
			Player:   p.Name,
			HandNum:  i + 1,
			NumHands: len(p.Hands),
			Cards:    hand.Cards(),
			Score:    hand.Score(),
			Bet:      hand.Bet,
			Bankroll: p.Bankroll,
			Choices:  choices,
		})
		if err != nil {
			return err
		}
		if !choiceOffered(choice, choices) {
			return fmt.Errorf("agent returned %s for %s which was not offered", choice, p.Name)
		}

		t.logger.Debug("player action", "player", p.Name, "hand", i+1, "choice", choice.String())

		resolved := false
		busted := false
		switch choice {
		case Stand:
			resolved = true

		case Hit:
			hand.AddCard(t.Shoe.Deal())
			if hand.IsBust() {
				t.message(fmt.Sprintf("%s busts!", p.Name))
				resolved = true
				busted = true
			}

		case Double:
			p.Bankroll -= hand.Bet
			hand.Bet *= 2
			t.message(fmt.Sprintf("%s doubles down.", p.Name))
			hand.AddCard(t.Shoe.Deal())
			resolved = true
			busted = hand.IsBust()

		case Split:
			if err := p.SplitHand(i, t.Shoe); err != nil {
				return fmt.Errorf("splitting %s's hand %d: %w", p.Name, i+1, err)
			}
			t.message(fmt.Sprintf("%s splits.", p.Name))
		}

		t.events.Publish(PlayerActionEvent{
			Player:    p.Name,
			HandNum:   i + 1,
			Choice:    choice,
			Hand:      t.snapshot().Players[t.seat(p)].Hands[i],
			Busted:    busted,
			Snapshot:  t.snapshot(),
			timestamp: time.Now(),
		})
		t.pause(ctx)

		if resolved {
			return nil
		}
	}
}

// playDealerHand reveals the hole card and hits to 17 or better.
// There is no soft-17 carve-out: the dealer stands on any 17.
func (t *Table) playDealerHand(ctx context.Context) {
	t.Dealer.FaceUp = true
	t.events.Publish(DealerRevealEvent{
		Dealer:    t.snapshot().Dealer,
		timestamp: time.Now(),
	})
	t.pause(ctx)

	for t.Dealer.Hand.Score() < t.standScore {
		card := t.Shoe.Deal()
		t.Dealer.Hand.AddCard(card)
		t.logger.Debug("dealer hits", "card", card.String(), "score", t.Dealer.Hand.Score())
		t.message("Dealer hits.")
		t.events.Publish(DealerDrawEvent{
			Card:      card,
			Dealer:    t.snapshot().Dealer,
			timestamp: time.Now(),
		})
		t.pause(ctx)
	}

	t.message("Dealer stands.")
	t.logger.Debug("dealer stands", "score", t.Dealer.Hand.Score())
}

// settle compares every hand against the dealer and pays out. With a
// dealer blackjack every hand loses outright. A bust loses; otherwise
// the hand wins when the dealer busts or its score is at least the
// dealer's. Ties push the bet back, naturals pay 5:2 total, other wins
// pay 2:1 total. Players reduced to a zero bankroll leave the table.
func (t *Table) settle(dealerBlackjack bool) {
	dealerScore := t.Dealer.Hand.Score()
	t.message(fmt.Sprintf("Dealer has %d.", dealerScore))

	for _, p := range t.Players {
		if !p.Active {
			continue
		}

		for i, hand := range p.Hands {
			outcome := OutcomeLoss
			payout := 0
			score := hand.Score()

			if !dealerBlackjack {
				switch {
				case score > BlackjackScore:
					t.message(fmt.Sprintf("%s has busted.", p.Name))
				case dealerScore > BlackjackScore || score >= dealerScore:
					switch {
					case score == dealerScore:
						outcome = OutcomePush
						payout = hand.Bet
						t.message(fmt.Sprintf("%s tied with dealer. Bet of %d returned.", p.Name, hand.Bet))
					case hand.IsBlackjack():
						outcome = OutcomeBlackjack
						payout = hand.Bet * blackjackPayoutNum / blackjackPayoutDen
						t.message(fmt.Sprintf("%s has blackjack! Wins %d.", p.Name, payout))
					default:
						outcome = OutcomeWin
						payout = hand.Bet * winPayout
						t.message(fmt.Sprintf("%s wins %d.", p.Name, payout))
					}
				default:
					t.message(fmt.Sprintf("%s has %d. Dealer wins.", p.Name, score))
				}
			}

			p.Bankroll += payout
			t.logger.Info("hand settled",
				"player", p.Name,
				"hand", i+1,
				"outcome", outcome.String(),
				"score", score,
				"bet", hand.Bet,
				"payout", payout,
				"bankroll", p.Bankroll)
			t.events.Publish(SettlementEvent{
				Player:    p.Name,
				HandNum:   i + 1,
				Outcome:   outcome,
				Score:     score,
				Payout:    payout,
				Bankroll:  p.Bankroll,
				timestamp: time.Now(),
			})
		}

		if p.Bankroll == 0 {
			p.Active = false
			t.message(fmt.Sprintf("%s is out of money and leaves the table.", p.Name))
			t.logger.Info("player broke", "player", p.Name)
		}
	}
}

func (t *Table) seat(p *Player) int {
	for i, seated := range t.Players {
		if seated == p {
			return i
		}
	}
	return -1
}

func choiceOffered(c Choice, offered []Choice) bool {
	for _, o := range offered {
		if o == c {
			return true
		}
	}
	return false
}
