package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
)

// State is the round lifecycle state.
type State int

const (
	Idle State = iota
	Active
	Locked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Locked:
		return "locked"
	}
	return "unknown"
}

// Pile names a place a tracked card can sit.
type Pile int

const (
	PlayerPile Pile = iota
	DealerPile
	TablePile
	BurnPile
)

func (p Pile) String() string {
	switch p {
	case PlayerPile:
		return "player"
	case DealerPile:
		return "dealer"
	case TablePile:
		return "table"
	case BurnPile:
		return "burn"
	}
	return "unknown"
}

// ParsePile parses a pile name.
func ParsePile(s string) (Pile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player", "p":
		return PlayerPile, nil
	case "dealer", "d":
		return DealerPile, nil
	case "table", "t":
		return TablePile, nil
	case "burn", "b":
		return BurnPile, nil
	}
	return PlayerPile, fmt.Errorf("unknown pile: %q", s)
}

// Hand is one player hand in a round.
type Hand struct {
	Cards     []deck.Rank
	Wager     int
	Doubled   bool
	Stood     bool
	Finished  bool
	SplitAce  bool
	FromSplit bool
}

// Value evaluates the hand's cards.
func (h *Hand) Value() evaluator.Value {
	return evaluator.Evaluate(h.Cards)
}

// Natural reports whether the hand is a blackjack eligible for 3:2.
func (h *Hand) Natural() bool {
	return !h.FromSplit && evaluator.IsBlackjack(h.Cards)
}

func (h *Hand) clone() Hand {
	out := *h
	out.Cards = slices.Clone(h.Cards)
	return out
}

// Round is the in-progress round.
type Round struct {
	Hands     []*Hand
	Dealer    []deck.Rank
	SplitUsed bool
	Locked    bool
	Active    int

	// tracker state when the round opened, restored by CancelRound
	startShoe  deck.Shoe
	startTable []deck.Rank
	startBurn  []deck.Rank
}

// ActiveHand returns the selected hand.
func (r *Round) ActiveHand() *Hand {
	if r.Active < 0 || r.Active >= len(r.Hands) {
		return nil
	}
	return r.Hands[r.Active]
}

// DealerUp returns the dealer's upcard or deck.NoRank.
func (r *Round) DealerUp() deck.Rank {
	if len(r.Dealer) == 0 {
		return deck.NoRank
	}
	return r.Dealer[0]
}

// Committed returns the total wagered across hands.
func (r *Round) Committed() int {
	total := 0
	for _, h := range r.Hands {
		total += h.Wager
	}
	return total
}

// advance moves the selection to the next unfinished hand after from, if any.
func (r *Round) advance(from int) bool {
	for i, h := range r.Hands {
		if i != from && !h.Finished {
			r.Active = i
			return true
		}
	}
	return false
}

