package game

import (
	"slices"

	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/simulator"
)

// AdviceRequest captures the active hand for the advisor. It reports false
// when there is no hand to advise on. Finished hands get no candidates, so
// the recommendation degrades to a reason.
func (e *Engine) AdviceRequest(budget int) (advisor.Request, bool) {
	r := e.round
	if r == nil || r.Locked {
		return advisor.Request{}, false
	}
	h := r.ActiveHand()
	if h == nil {
		return advisor.Request{}, false
	}

	req := advisor.Request{
		Hand: r.Active,
		Scenario: simulator.Scenario{
			Shoe:           e.shoe.Snapshot(),
			Player:         slices.Clone(h.Cards),
			DealerUp:       r.DealerUp(),
			Bet:            h.Wager,
			PostSplit:      h.FromSplit,
			SixCardCharlie: e.charlie,
		},
		Budget: budget,
	}
	if !h.Finished {
		req.Candidates = advisor.Candidates(advisor.Situation{
			Cards:     h.Cards,
			DealerUp:  r.DealerUp(),
			PostSplit: h.FromSplit,
			SplitHand: r.Active == 0 && !r.SplitUsed,
			SplitUsed: r.SplitUsed,
			Bankroll:  e.bankroll,
			Committed: r.Committed(),
			Bet:       h.Wager,
			TrueCount: e.TrueCount(),
		})
	}
	return req, true
}
