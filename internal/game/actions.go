package game

import (
	"fmt"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
	"github.com/lox/shoecount/internal/strategy"
)

// Hit deals rank (or a random card for deck.NoRank) to the active hand. A
// hand that busts or reaches a six-card charlie is finished and the selection
// moves to the next unfinished hand.
func (e *Engine) Hit(rank deck.Rank) (deck.Rank, error) {
	r, err := e.active()
	if err != nil {
		return deck.NoRank, err
	}
	return e.deal(r, r.Active, rank)
}

// AddPlayerCard deals rank to hand i. It is Hit for an explicit hand, used
// to correct or enter cards out of order.
func (e *Engine) AddPlayerCard(i int, rank deck.Rank) (deck.Rank, error) {
	r, err := e.active()
	if err != nil {
		return deck.NoRank, err
	}
	if i < 0 || i >= len(r.Hands) {
		return deck.NoRank, illegal("no hand %d", i+1)
	}
	return e.deal(r, i, rank)
}

func (e *Engine) deal(r *Round, i int, rank deck.Rank) (deck.Rank, error) {
	h := r.Hands[i]
	if h == nil {
		return deck.NoRank, illegal("no active hand")
	}
	if h.Finished {
		return deck.NoRank, illegal("hand %d is finished", i+1)
	}

	card, err := e.take(rank)
	if err != nil {
		return deck.NoRank, err
	}
	h.Cards = append(h.Cards, card)

	e.logger.Debug("Player card", "hand", i, "rank", card, "total", h.Value().Total)
	e.publish(CardEvent{Pile: PlayerPile, Hand: i, Rank: card, timestamp: e.clock.Now()})

	if e.refreshFinished(h) && i == r.Active {
		e.advance(r, i)
	}
	return card, nil
}

// refreshFinished recomputes Finished for a hand that hasn't stood. It
// reports whether the hand is now finished.
func (e *Engine) refreshFinished(h *Hand) bool {
	if h.Stood {
		return true
	}
	v := h.Value()
	h.Finished = v.Bust() || (e.charlie && evaluator.IsCharlie(h.Cards))
	return h.Finished
}

func (e *Engine) advance(r *Round, from int) {
	if r.advance(from) {
		e.publish(HandActionEvent{Hand: r.Active, Action: "selected", Detail: "auto", timestamp: e.clock.Now()})
	}
}

// Double doubles the active hand's wager and deals it exactly one card. The
// hand must be an unfinished two-card hand that did not come from a split,
// and the bankroll must cover every wager in the round plus the extra stake.
// When the bankroll falls short the drawn card goes back to the shoe.
func (e *Engine) Double(rank deck.Rank) (deck.Rank, error) {
	r, err := e.active()
	if err != nil {
		return deck.NoRank, err
	}
	i := r.Active
	h := r.ActiveHand()
	switch {
	case h == nil:
		return deck.NoRank, illegal("no active hand")
	case h.Finished:
		return deck.NoRank, illegal("hand %d is finished", i+1)
	case len(h.Cards) != 2:
		return deck.NoRank, illegal("double needs exactly two cards, hand %d has %d", i+1, len(h.Cards))
	case h.FromSplit:
		return deck.NoRank, illegal("no double after split")
	}

	card, err := e.take(rank)
	if err != nil {
		return deck.NoRank, err
	}
	if need := r.Committed() + h.Wager; e.bankroll < need {
		e.shoe.Return(card)
		return deck.NoRank, illegal("insufficient bankroll %d to double, need %d", e.bankroll, need)
	}

	h.Wager *= 2
	h.Doubled = true
	h.Cards = append(h.Cards, card)
	h.Stood = true
	h.Finished = true

	e.logger.Debug("Double", "hand", i, "rank", card, "wager", h.Wager)
	e.publish(CardEvent{Pile: PlayerPile, Hand: i, Rank: card, timestamp: e.clock.Now()})
	e.publish(HandActionEvent{Hand: i, Action: "doubled", Detail: fmt.Sprintf("wager %d", h.Wager), timestamp: e.clock.Now()})
	e.advance(r, i)
	return card, nil
}

// Stand finishes the active hand.
func (e *Engine) Stand() error {
	r, err := e.active()
	if err != nil {
		return err
	}
	i := r.Active
	h := r.ActiveHand()
	if h == nil {
		return illegal("no active hand")
	}
	if h.Finished {
		return illegal("hand %d is finished", i+1)
	}

	h.Stood = true
	h.Finished = true

	e.logger.Debug("Stand", "hand", i, "total", h.Value().Total)
	e.publish(HandActionEvent{Hand: i, Action: "stood", Detail: fmt.Sprint(h.Value().Total), timestamp: e.clock.Now()})
	e.advance(r, i)
	return nil
}

// Split turns the first hand's pair into two one-card hands with equal
// wagers. Allowed once per round, for two cards of equal rank or any two
// ten-valued cards, when the bankroll covers the second wager.
func (e *Engine) Split() error {
	r, err := e.active()
	if err != nil {
		return err
	}
	if r.SplitUsed {
		return illegal("already split once")
	}
	main := r.Hands[0]
	if main.Finished {
		return illegal("hand 1 is finished")
	}
	if len(main.Cards) != 2 {
		return illegal("need exactly 2 cards to split, have %d", len(main.Cards))
	}
	a, b := main.Cards[0], main.Cards[1]
	if _, ok := strategy.PairRank(a, b); !ok {
		return illegal("%s and %s are not an equal-value pair", a, b)
	}
	if need := r.Committed() + main.Wager; e.bankroll < need {
		return illegal("insufficient bankroll %d for split, need %d", e.bankroll, need)
	}

	r.Hands = []*Hand{
		{Cards: []deck.Rank{a}, Wager: main.Wager, SplitAce: a == deck.Ace, FromSplit: true},
		{Cards: []deck.Rank{b}, Wager: main.Wager, SplitAce: b == deck.Ace, FromSplit: true},
	}
	r.SplitUsed = true
	r.Active = 0

	e.logger.Debug("Split", "pair", deck.FormatRanks([]deck.Rank{a, b}), "wager", main.Wager)
	e.publish(HandActionEvent{Hand: 0, Action: "split", Detail: fmt.Sprintf("%s/%s", a, b), timestamp: e.clock.Now()})
	return nil
}

// SelectHand makes hand i the active hand.
func (e *Engine) SelectHand(i int) error {
	r, err := e.active()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(r.Hands) {
		return illegal("no hand %d", i+1)
	}
	r.Active = i
	e.publish(HandActionEvent{Hand: i, Action: "selected", timestamp: e.clock.Now()})
	return nil
}
