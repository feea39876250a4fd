package game

import (
	"slices"

	"github.com/lox/shoecount/internal/deck"
)

// Move describes a card taken back by Undo or RemoveCard.
type Move struct {
	Pile Pile
	Hand int
	Rank deck.Rank
}

// AddDealerCard charges rank against the live shoe and appends it to the
// dealer's cards. The first dealer card is the upcard.
func (e *Engine) AddDealerCard(rank deck.Rank) (deck.Rank, error) {
	r, err := e.active()
	if err != nil {
		return deck.NoRank, err
	}
	card, err := e.take(rank)
	if err != nil {
		return deck.NoRank, err
	}
	r.Dealer = append(r.Dealer, card)

	e.logger.Debug("Dealer card", "rank", card, "position", len(r.Dealer)-1)
	e.publish(CardEvent{Pile: DealerPile, Rank: card, timestamp: e.clock.Now()})
	return card, nil
}

// AddTableCard records another player's visible card. Table cards may be
// entered with or without a round in progress.
func (e *Engine) AddTableCard(rank deck.Rank) (deck.Rank, error) {
	return e.addAux(&e.table, TablePile, rank)
}

// AddBurnCard records a burned card.
func (e *Engine) AddBurnCard(rank deck.Rank) (deck.Rank, error) {
	return e.addAux(&e.burn, BurnPile, rank)
}

func (e *Engine) addAux(pile *[]deck.Rank, p Pile, rank deck.Rank) (deck.Rank, error) {
	if e.round != nil && e.round.Locked {
		return deck.NoRank, illegal("round is locked")
	}
	card, err := e.take(rank)
	if err != nil {
		return deck.NoRank, err
	}
	*pile = append(*pile, card)

	e.logger.Debug("Aux card", "pile", p, "rank", card)
	e.publish(CardEvent{Pile: p, Rank: card, timestamp: e.clock.Now()})
	return card, nil
}

// BurnLastTable moves the most recent table card to the burn pile. The
// card stays charged against the shoe.
func (e *Engine) BurnLastTable() (deck.Rank, error) {
	if e.round != nil && e.round.Locked {
		return deck.NoRank, illegal("round is locked")
	}
	if len(e.table) == 0 {
		return deck.NoRank, illegal("no table cards")
	}
	card := e.table[len(e.table)-1]
	e.table = e.table[:len(e.table)-1]
	e.burn = append(e.burn, card)

	e.publish(CardEvent{Pile: BurnPile, Rank: card, timestamp: e.clock.Now()})
	return card, nil
}

// ClearBurns returns every burned card to the shoe and empties the pile.
func (e *Engine) ClearBurns() (int, error) {
	if e.round != nil && e.round.Locked {
		return 0, illegal("round is locked")
	}
	n := len(e.burn)
	for _, c := range e.burn {
		e.shoe.Return(c)
		e.publish(CardEvent{Pile: BurnPile, Rank: c, Returned: true, timestamp: e.clock.Now()})
	}
	e.burn = nil
	e.logger.Debug("Burns cleared", "returned", n)
	return n, nil
}

// RemoveCard takes the card at position pos out of a pile and returns it to
// the shoe. hand selects the player hand for PlayerPile. Removing a card
// from a hand that busted reopens it; stood and doubled hands stay closed.
func (e *Engine) RemoveCard(p Pile, hand, pos int) (Move, error) {
	if e.round != nil && e.round.Locked {
		return Move{}, illegal("round is locked")
	}

	var cards *[]deck.Rank
	var h *Hand
	switch p {
	case PlayerPile, DealerPile:
		if e.round == nil {
			return Move{}, illegal("no active round")
		}
		if p == DealerPile {
			cards = &e.round.Dealer
			break
		}
		if hand < 0 || hand >= len(e.round.Hands) {
			return Move{}, illegal("no hand %d", hand+1)
		}
		h = e.round.Hands[hand]
		if h.Stood {
			return Move{}, illegal("hand %d is finished", hand+1)
		}
		cards = &h.Cards
	case TablePile:
		cards = &e.table
	case BurnPile:
		cards = &e.burn
	default:
		return Move{}, illegal("unknown pile %d", int(p))
	}

	if pos < 0 || pos >= len(*cards) {
		return Move{}, illegal("no %s card at position %d", p, pos+1)
	}
	card := (*cards)[pos]
	*cards = slices.Delete(*cards, pos, pos+1)
	e.shoe.Return(card)
	if h != nil {
		e.refreshFinished(h)
	}

	mv := Move{Pile: p, Hand: hand, Rank: card}
	e.logger.Debug("Card removed", "pile", p, "hand", hand, "position", pos, "rank", card)
	e.publish(CardEvent{Pile: p, Hand: hand, Rank: card, Returned: true, timestamp: e.clock.Now()})
	return mv, nil
}

// Undo returns the most recent card to the shoe, looking first at player
// hands that haven't stood (last hand first), then the dealer, then the
// table pile, then the burn pile.
func (e *Engine) Undo() (Move, error) {
	if e.round != nil && e.round.Locked {
		return Move{}, illegal("round is locked")
	}

	if r := e.round; r != nil {
		for i := len(r.Hands) - 1; i >= 0; i-- {
			h := r.Hands[i]
			if len(h.Cards) > 0 && !h.Stood {
				return e.RemoveCard(PlayerPile, i, len(h.Cards)-1)
			}
		}
		if len(r.Dealer) > 0 {
			return e.RemoveCard(DealerPile, 0, len(r.Dealer)-1)
		}
	}
	if len(e.table) > 0 {
		return e.RemoveCard(TablePile, 0, len(e.table)-1)
	}
	if len(e.burn) > 0 {
		return e.RemoveCard(BurnPile, 0, len(e.burn)-1)
	}
	return Move{}, ErrNothingToUndo
}
