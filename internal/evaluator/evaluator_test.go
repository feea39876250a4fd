package evaluator

import (
	"testing"

	"github.com/lox/shoecount/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		cards []deck.Rank
		total int
		soft  bool
		bust  bool
	}{
		{"empty", nil, 0, false, false},
		{"pair of aces", []deck.Rank{deck.Ace, deck.Ace}, 12, true, false},
		{"two aces and nine", []deck.Rank{deck.Ace, deck.Ace, deck.Nine}, 21, true, false},
		{"face cards bust", []deck.Rank{deck.King, deck.Queen, deck.Two}, 22, false, true},
		{"blackjack", []deck.Rank{deck.Ace, deck.King}, 21, true, false},
		{"soft 17", []deck.Rank{deck.Ace, deck.Six}, 17, true, false},
		{"ace rescues bust", []deck.Rank{deck.Ace, deck.Five, deck.Eight}, 14, false, false},
		{"hard 20", []deck.Rank{deck.Ten, deck.Jack}, 20, false, false},
		{"four aces", []deck.Rank{deck.Ace, deck.Ace, deck.Ace, deck.Ace}, 14, true, false},
		{"all aces softened and bust", []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Five}, 26, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.cards)
			assert.Equal(t, tt.total, v.Total)
			assert.Equal(t, tt.soft, v.Soft())
			assert.Equal(t, tt.bust, v.Bust())
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack([]deck.Rank{deck.Ace, deck.Queen}))
	assert.True(t, IsBlackjack([]deck.Rank{deck.Ten, deck.Ace}))
	assert.False(t, IsBlackjack([]deck.Rank{deck.Seven, deck.Seven, deck.Seven}))
	assert.False(t, IsBlackjack([]deck.Rank{deck.King, deck.Queen}))
}

func TestIsCharlie(t *testing.T) {
	six := []deck.Rank{deck.Two, deck.Two, deck.Three, deck.Three, deck.Four, deck.Ace}
	assert.True(t, IsCharlie(six))
	assert.False(t, IsCharlie(six[:5]))

	busted := []deck.Rank{deck.Two, deck.Two, deck.Three, deck.Three, deck.Four, deck.King, deck.Nine}
	assert.False(t, IsCharlie(busted))
}
