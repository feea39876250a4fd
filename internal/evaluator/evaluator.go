// Package evaluator values blackjack hands.
package evaluator

import "github.com/lox/shoecount/internal/deck"

const (
	// Blackjack is the best possible total.
	Blackjack = 21

	aceSoftening = 10
)

// Value is the evaluated total of a hand. SoftAces counts the Aces still
// counted as 11 after softening.
type Value struct {
	Total    int
	SoftAces int
}

// Soft reports whether at least one Ace is still counted as 11.
func (v Value) Soft() bool {
	return v.SoftAces > 0
}

// Bust reports whether the total exceeds 21 with every Ace already softened.
func (v Value) Bust() bool {
	return v.Total > Blackjack
}

// Hard reports whether the total involves no Ace counted as 11.
func (v Value) Hard() bool {
	return !v.Soft()
}

// Evaluate sums cards with Aces as 11, then counts Aces as 1 one at a time
// while the total is over 21.
func Evaluate(cards []deck.Rank) Value {
	var v Value
	for _, c := range cards {
		if c == deck.Ace {
			v.SoftAces++
		}
		v.Total += c.Value()
	}
	for v.Total > Blackjack && v.SoftAces > 0 {
		v.Total -= aceSoftening
		v.SoftAces--
	}
	return v
}

// IsBlackjack reports whether cards form a two-card 21.
func IsBlackjack(cards []deck.Rank) bool {
	return len(cards) == 2 && Evaluate(cards).Total == Blackjack
}

// IsCharlie reports whether cards are a six-or-more card hand that has not busted.
func IsCharlie(cards []deck.Rank) bool {
	return len(cards) >= CharlieCards && !Evaluate(cards).Bust()
}

// CharlieCards is the hand size that triggers the six-card-charlie rule.
const CharlieCards = 6
