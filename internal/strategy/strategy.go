// Package strategy holds the double and split rule tables, including the
// true-count overlays that deviate from basic strategy.
package strategy

import (
	"fmt"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
)

// Decision is the outcome of a rule-table lookup. Reason is display text.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// upIn reports whether the dealer upcard's value lies in [lo, hi].
// Aces count as 11, so they only match ranges that reach 11.
func upIn(up deck.Rank, lo, hi int) bool {
	if !up.Valid() {
		return false
	}
	v := up.Value()
	return v >= lo && v <= hi
}

// CanDouble reports whether doubling is recommended for cards against the
// dealer upcard. Doubling after a split is never allowed.
func CanDouble(cards []deck.Rank, dealerUp deck.Rank, postSplit bool, trueCount float64) Decision {
	if postSplit {
		return deny("No double after split")
	}

	v := evaluator.Evaluate(cards)
	total := v.Total

	if v.Hard() {
		switch {
		case total == 9 && upIn(dealerUp, 3, 6):
			return allow("Hard 9 vs 3-6")
		case total == 10 && upIn(dealerUp, 2, 9):
			return allow("Hard 10 vs 2-9")
		case total == 11 && dealerUp != deck.Ace:
			return allow("Hard 11 vs 2-10")
		}
	} else {
		switch {
		case (total == 13 || total == 14) && upIn(dealerUp, 5, 6):
			return allow("Soft 13/14 vs 5-6")
		case (total == 15 || total == 16) && upIn(dealerUp, 4, 6):
			return allow("Soft 15/16 vs 4-6")
		case total == 17 && upIn(dealerUp, 3, 6):
			return allow("Soft 17 vs 3-6")
		case total == 18 && upIn(dealerUp, 2, 6):
			return allow("Soft 18 vs 2-6")
		}
	}

	if trueCount >= 2 {
		if total == 10 && dealerUp.IsTen() {
			return allow("TC>=+2: double 10 vs 10")
		}
		if total == 9 && dealerUp == deck.Two {
			return allow("TC>=+2: double 9 vs 2")
		}
	}

	return deny("Double not recommended")
}

// CanSplit reports whether splitting a pair of pairRank is recommended.
// Ten-valued pairs should be passed as deck.Ten (see PairRank).
func CanSplit(pairRank, dealerUp deck.Rank, splitAlready bool, bankroll, bet int, trueCount float64) Decision {
	if splitAlready {
		return deny("Already split")
	}
	if bankroll < bet {
		return deny("Insufficient bankroll")
	}

	switch {
	case pairRank == deck.Ace || pairRank == deck.Eight:
		return allow(fmt.Sprintf("Always split %ss", pairRank))
	case pairRank == deck.Five:
		return deny("Never split 5s")
	case pairRank.IsTen():
		if trueCount >= 4 {
			return allow("High TC overlay: split 10s")
		}
		return deny("Don't split 10s")
	case pairRank == deck.Two || pairRank == deck.Three || pairRank == deck.Seven:
		return Decision{Allowed: upIn(dealerUp, 2, 7), Reason: fmt.Sprintf("Split %ss vs 2-7", pairRank)}
	case pairRank == deck.Four:
		return Decision{Allowed: upIn(dealerUp, 5, 6), Reason: "Split 4s vs 5-6"}
	case pairRank == deck.Six:
		return Decision{Allowed: upIn(dealerUp, 2, 6), Reason: "Split 6s vs 2-6"}
	case pairRank == deck.Nine:
		return Decision{Allowed: upIn(dealerUp, 2, 6) || upIn(dealerUp, 8, 9), Reason: "Split 9s vs 2-6,8-9"}
	}

	return deny("No split recommended")
}

// PairRank returns the rank to look up in the split table when a and b form a
// pair. Two different ten-valued ranks (K+Q) pair as deck.Ten.
func PairRank(a, b deck.Rank) (deck.Rank, bool) {
	switch {
	case !a.Valid() || !b.Valid():
		return deck.NoRank, false
	case a.IsTen() && b.IsTen():
		return deck.Ten, true
	case a == b:
		return a, true
	}
	return deck.NoRank, false
}
