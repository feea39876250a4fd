package game

import (
	"slices"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/ledger"
	"github.com/lox/shoecount/internal/settlement"
)

// Resolve settles the round. The dealer hand is completed from a private
// snapshot of the shoe, so those draws never touch the live count. Every hand
// is settled in order, the bankroll moves by the net, the record is appended
// to the ledger and the engine returns to Idle with the piles cleared.
func (e *Engine) Resolve() (ledger.Record, error) {
	r, err := e.active()
	if err != nil {
		return ledger.Record{}, err
	}
	for i, h := range r.Hands {
		if len(h.Cards) == 0 {
			return ledger.Record{}, illegal("hand %d has no cards", i+1)
		}
	}

	r.Locked = true

	snap := e.shoe.Snapshot()
	dealer := slices.Clone(r.Dealer)
	for len(dealer) < 2 || settlement.DealerShouldDraw(dealer) {
		c, ok := snap.Draw(e.rng)
		if !ok {
			break
		}
		dealer = append(dealer, c)
	}

	rules := settlement.Rules{SixCardCharlie: e.charlie}
	rec := ledger.Record{
		ID:             e.ids.Next(),
		Dealer:         dealer,
		Table:          slices.Clone(e.table),
		Burn:           slices.Clone(e.burn),
		BankrollBefore: e.bankroll,
		TrueCount:      e.TrueCount(),
		ResolvedAt:     e.clock.Now(),
	}
	for i, h := range r.Hands {
		outcome := settlement.Settle(h.Cards, h.Natural(), dealer, rules)
		net := outcome.Net(h.Wager)
		rec.Hands = append(rec.Hands, ledger.Hand{
			Cards:     slices.Clone(h.Cards),
			Wager:     h.Wager,
			Doubled:   h.Doubled,
			FromSplit: h.FromSplit,
		})
		rec.Details = append(rec.Details, ledger.Detail{Hand: i, Outcome: outcome, Net: net})
		rec.Net += net
	}
	rec.BankrollAfter = e.bankroll + rec.Net

	if err := e.ledger.Append(rec); err != nil {
		r.Locked = false
		return ledger.Record{}, err
	}

	e.bankroll = rec.BankrollAfter
	e.round = nil
	e.table = nil
	e.burn = nil

	e.logger.Info("Round resolved",
		"id", rec.ID,
		"dealer", deck.FormatRanks(dealer),
		"net", rec.Net,
		"bankroll", e.bankroll)
	e.publish(RoundEndEvent{Record: rec, timestamp: rec.ResolvedAt})
	return rec, nil
}
