package advisor

import (
	"math"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/simulator"
	"github.com/lox/shoecount/internal/strategy"
)

// Situation is what candidate selection needs to know about the active hand.
type Situation struct {
	Cards     []deck.Rank
	DealerUp  deck.Rank
	PostSplit bool
	// SplitHand is true when the active hand is the round's first hand and
	// no split has been used yet.
	SplitHand bool
	SplitUsed bool
	Bankroll  int
	Committed int
	Bet       int
	TrueCount float64
}

// Candidates lists the actions worth simulating. Hit and stand are always
// offered; double and split only when the rule tables allow them and the
// bankroll can cover the extra wager.
func Candidates(s Situation) []simulator.Candidate {
	out := []simulator.Candidate{
		{Action: simulator.Hit, Reason: "simulation"},
		{Action: simulator.Stand, Reason: "simulation"},
	}
	tc := math.Floor(s.TrueCount)
	free := s.Bankroll - s.Committed

	if len(s.Cards) == 2 && free >= s.Bet {
		if d := strategy.CanDouble(s.Cards, s.DealerUp, s.PostSplit, tc); d.Allowed {
			out = append(out, simulator.Candidate{Action: simulator.Double, Reason: d.Reason})
		}
	}

	if s.SplitHand && len(s.Cards) == 2 {
		if pair, ok := strategy.PairRank(s.Cards[0], s.Cards[1]); ok {
			if d := strategy.CanSplit(pair, s.DealerUp, s.SplitUsed, free, s.Bet, tc); d.Allowed {
				out = append(out, simulator.Candidate{Action: simulator.Split, Reason: d.Reason})
			}
		}
	}
	return out
}
