package settlement

import (
	"testing"

	"github.com/lox/shoecount/internal/deck"
	"github.com/stretchr/testify/assert"
)

func ranks(rs ...deck.Rank) []deck.Rank { return rs }

func TestSettlePrecedence(t *testing.T) {
	charlie := ranks(deck.Two, deck.Two, deck.Three, deck.Three, deck.Four, deck.Two)

	tests := []struct {
		name    string
		player  []deck.Rank
		natural bool
		dealer  []deck.Rank
		rules   Rules
		want    Outcome
	}{
		{"charlie beats dealer 21", charlie, false, ranks(deck.Ten, deck.Ace), Rules{SixCardCharlie: true}, SixCardCharlie},
		{"charlie disabled compares totals", charlie, false, ranks(deck.Ten, deck.Eight), Rules{}, PlayerLose},
		{"player bust beats dealer bust", ranks(deck.Ten, deck.Six, deck.King), false, ranks(deck.Ten, deck.Six, deck.Nine), Rules{}, PlayerBust},
		{"dealer bust", ranks(deck.Ten, deck.Two), false, ranks(deck.Ten, deck.Six, deck.Nine), Rules{}, DealerBust},
		{"natural vs 21", ranks(deck.Ace, deck.King), true, ranks(deck.Seven, deck.Seven, deck.Seven), Rules{}, Blackjack},
		{"natural vs natural", ranks(deck.Ace, deck.King), true, ranks(deck.Ace, deck.Queen), Rules{}, PushBlackjack},
		{"split 21 is not natural", ranks(deck.Ace, deck.King), false, ranks(deck.Ten, deck.Nine), Rules{}, PlayerWin},
		{"split 21 pushes dealer natural", ranks(deck.Ace, deck.King), false, ranks(deck.Ace, deck.Queen), Rules{}, Push},
		{"higher total wins", ranks(deck.Ten, deck.Nine), false, ranks(deck.Ten, deck.Eight), Rules{}, PlayerWin},
		{"equal totals push", ranks(deck.Ten, deck.Eight), false, ranks(deck.Nine, deck.Nine), Rules{}, Push},
		{"lower total loses", ranks(deck.Ten, deck.Seven), false, ranks(deck.Ten, deck.Eight), Rules{}, PlayerLose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Settle(tt.player, tt.natural, tt.dealer, tt.rules))
		})
	}
}

func TestOutcomeNet(t *testing.T) {
	assert.Equal(t, 150, Blackjack.Net(100))
	assert.Equal(t, 100, DealerBust.Net(100))
	assert.Equal(t, 200, SixCardCharlie.Net(200))
	assert.Equal(t, -100, PlayerBust.Net(100))
	assert.Equal(t, -100, PlayerLose.Net(100))
	assert.Equal(t, 0, Push.Net(100))
	assert.Equal(t, 0, PushBlackjack.Net(100))
}

func TestOutcomeUnits(t *testing.T) {
	assert.Equal(t, 1.5, Blackjack.Units())
	assert.Equal(t, 1.0, PlayerWin.Units())
	assert.Equal(t, 0.0, Push.Units())
	assert.Equal(t, -1.0, PlayerBust.Units())
}

func TestDealerShouldDraw(t *testing.T) {
	assert.True(t, DealerShouldDraw(ranks(deck.Six)))
	assert.True(t, DealerShouldDraw(ranks(deck.Ten, deck.Six)))
	assert.False(t, DealerShouldDraw(ranks(deck.Ace, deck.Six)), "stands on soft 17")
	assert.False(t, DealerShouldDraw(ranks(deck.Ten, deck.Seven)))
}
