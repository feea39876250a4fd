package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/simulator"
)

func actions(cs []simulator.Candidate) []simulator.Action {
	out := make([]simulator.Action, len(cs))
	for i, c := range cs {
		out[i] = c.Action
	}
	return out
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		sit  Situation
		want []simulator.Action
	}{
		{
			name: "hard 16 only hit and stand",
			sit:  Situation{Cards: []deck.Rank{deck.Ten, deck.Six}, DealerUp: deck.Ten, Bankroll: 1000, Committed: 100, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand},
		},
		{
			name: "hard 11 doubles",
			sit:  Situation{Cards: []deck.Rank{deck.Five, deck.Six}, DealerUp: deck.Six, Bankroll: 1000, Committed: 100, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand, simulator.Double},
		},
		{
			name: "double needs free bankroll",
			sit:  Situation{Cards: []deck.Rank{deck.Five, deck.Six}, DealerUp: deck.Six, Bankroll: 150, Committed: 100, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand},
		},
		{
			name: "no double after split",
			sit:  Situation{Cards: []deck.Rank{deck.Five, deck.Six}, DealerUp: deck.Six, PostSplit: true, Bankroll: 1000, Committed: 200, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand},
		},
		{
			name: "eights split",
			sit:  Situation{Cards: []deck.Rank{deck.Eight, deck.Eight}, DealerUp: deck.Ten, SplitHand: true, Bankroll: 1000, Committed: 100, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand, simulator.Split},
		},
		{
			name: "split only on the first hand",
			sit:  Situation{Cards: []deck.Rank{deck.Eight, deck.Eight}, DealerUp: deck.Ten, Bankroll: 1000, Committed: 100, Bet: 100},
			want: []simulator.Action{simulator.Hit, simulator.Stand},
		},
		{
			name: "tens split at high count",
			sit:  Situation{Cards: []deck.Rank{deck.King, deck.Queen}, DealerUp: deck.Six, SplitHand: true, Bankroll: 1000, Committed: 100, Bet: 100, TrueCount: 4.3},
			want: []simulator.Action{simulator.Hit, simulator.Stand, simulator.Split},
		},
		{
			name: "tens stay together below four",
			sit:  Situation{Cards: []deck.Rank{deck.King, deck.Queen}, DealerUp: deck.Six, SplitHand: true, Bankroll: 1000, Committed: 100, Bet: 100, TrueCount: 3.9},
			want: []simulator.Action{simulator.Hit, simulator.Stand},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, actions(Candidates(tt.sit)))
		})
	}
}
