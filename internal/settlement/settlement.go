// Package settlement decides how a finished player hand fares against the
// dealer. The live round resolver and the Monte Carlo simulator both settle
// through Settle so the precedence rules exist in one place.
package settlement

import (
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
)

// DealerStandsOn is the dealer's stopping total. The dealer stands on all 17s.
const DealerStandsOn = 17

// Outcome tags a settled hand.
type Outcome string

const (
	SixCardCharlie Outcome = "six-card-charlie"
	PlayerBust     Outcome = "player-bust"
	DealerBust     Outcome = "dealer-bust"
	Blackjack      Outcome = "blackjack-3:2"
	PushBlackjack  Outcome = "push-blackjack"
	PlayerWin      Outcome = "player-win"
	Push           Outcome = "push"
	PlayerLose     Outcome = "player-lose"
)

// Result collapses an outcome into win, push or loss.
type Result int

const (
	Loss Result = iota - 1
	Tie
	Win
)

// Result returns whether the outcome is a win, push or loss for the player.
func (o Outcome) Result() Result {
	switch o {
	case SixCardCharlie, DealerBust, Blackjack, PlayerWin:
		return Win
	case PushBlackjack, Push:
		return Tie
	}
	return Loss
}

// Label returns the display text for the outcome.
func (o Outcome) Label() string {
	switch o {
	case SixCardCharlie:
		return "Six Card Charlie"
	case PlayerBust:
		return "Player bust"
	case DealerBust:
		return "Dealer bust"
	case Blackjack:
		return "Blackjack (3:2)"
	case PushBlackjack:
		return "Push (BJ)"
	case PlayerWin:
		return "Player win"
	case Push:
		return "Push"
	case PlayerLose:
		return "Player lose"
	}
	return string(o)
}

// Net returns the signed chip result of the outcome for wager.
// Blackjack pays 3:2 and is exact for even wagers.
func (o Outcome) Net(wager int) int {
	if o == Blackjack {
		return wager * 3 / 2
	}
	return int(o.Result()) * wager
}

// Units returns the payout per unit staked, e.g. 1.5 for a blackjack.
func (o Outcome) Units() float64 {
	if o == Blackjack {
		return 1.5
	}
	return float64(o.Result())
}

// Rules are the house rules that affect settlement.
type Rules struct {
	SixCardCharlie bool
}

// Settle applies the settlement precedence: six-card charlie, player bust,
// dealer bust, natural against a non-natural dealer, natural push, and finally
// the higher total. natural says whether the hand's original two-card start
// was a blackjack that is eligible for the 3:2 payout.
func Settle(player []deck.Rank, natural bool, dealer []deck.Rank, rules Rules) Outcome {
	p := evaluator.Evaluate(player)
	d := evaluator.Evaluate(dealer)

	switch {
	case rules.SixCardCharlie && len(player) >= evaluator.CharlieCards && !p.Bust():
		return SixCardCharlie
	case p.Bust():
		return PlayerBust
	case d.Bust():
		return DealerBust
	}

	dealerNatural := evaluator.IsBlackjack(dealer)
	switch {
	case natural && !dealerNatural:
		return Blackjack
	case natural && dealerNatural:
		return PushBlackjack
	case p.Total > d.Total:
		return PlayerWin
	case p.Total == d.Total:
		return Push
	}
	return PlayerLose
}

// DealerShouldDraw reports whether the dealer must take another card.
func DealerShouldDraw(dealer []deck.Rank) bool {
	return evaluator.Evaluate(dealer).Total < DealerStandsOn
}
