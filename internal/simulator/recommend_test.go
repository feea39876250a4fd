package simulator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/randutil"
)

func TestRecommendQuickDecisions(t *testing.T) {
	shoe := fullShoe(t, 6)
	candidates := []Candidate{{Action: Stand}, {Action: Hit}}

	tests := []struct {
		name      string
		player    []deck.Rank
		available bool
		action    Action
	}{
		{"no hand", nil, false, Stand},
		{"bust", []deck.Rank{deck.King, deck.Queen, deck.Five}, false, Stand},
		{"twenty one", []deck.Rank{deck.Seven, deck.Seven, deck.Seven}, true, Stand},
		{"hard twenty", []deck.Rank{deck.King, deck.Queen}, true, Stand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := Scenario{Shoe: shoe, Player: tt.player, DealerUp: deck.Ten, Bet: 50}
			rec := Recommend(sc, candidates, 1000, randutil.New(1))
			assert.Equal(t, tt.available, rec.Available)
			assert.Equal(t, tt.action, rec.Action)
			assert.NotEmpty(t, rec.Reason)
			assert.Zero(t, rec.Result.Iterations)
		})
	}
}

func TestRecommendEmptyShoe(t *testing.T) {
	sc := Scenario{Shoe: deck.Shoe{}, Player: []deck.Rank{deck.Ten, deck.Six}, DealerUp: deck.Ten, Bet: 50}
	rec := Recommend(sc, []Candidate{{Action: Stand}, {Action: Hit}}, 1000, randutil.New(1))
	assert.False(t, rec.Available)
	assert.Equal(t, "no recommendation available", rec.Reason)
}

func TestRecommendPicksBestEV(t *testing.T) {
	sc := Scenario{Shoe: tens(t), Player: []deck.Rank{deck.Five, deck.Six}, DealerUp: deck.Six, Bet: 100}
	rec := Recommend(sc, []Candidate{
		{Action: Hit, Reason: "hit"},
		{Action: Double, Reason: "hard 11 vs 6"},
		{Action: Stand, Reason: "stand"},
	}, 900, randutil.New(2))

	assert.True(t, rec.Available)
	assert.Equal(t, Double, rec.Action)
	assert.Equal(t, "hard 11 vs 6", rec.Reason)
	assert.Equal(t, 200.0, rec.Result.MeanEV)
	assert.Len(t, rec.Alternatives, 3)
	assert.Equal(t, Stand, rec.Alternatives[0].Action)
}

func TestRecommendTiePrefersStand(t *testing.T) {
	// Stand and hit both win every trial: 11 stands vs a busting dealer, and
	// 11 hits to 21.
	sc := Scenario{Shoe: tens(t), Player: []deck.Rank{deck.Five, deck.Six}, DealerUp: deck.Six, Bet: 100}
	rec := Recommend(sc, []Candidate{{Action: Hit}, {Action: Stand}}, 600, randutil.New(4))

	assert.Equal(t, Stand, rec.Action)
	assert.Equal(t, 100.0, rec.Result.MeanEV)
}

func TestRecommendBudgetClamp(t *testing.T) {
	sc := Scenario{Shoe: fullShoe(t, 6), Player: []deck.Rank{deck.Ten, deck.Six}, DealerUp: deck.Ten, Bet: 50}
	candidates := []Candidate{{Action: Stand}, {Action: Hit}}

	rec := Recommend(sc, candidates, 10, randutil.New(1))
	for _, r := range rec.Alternatives {
		assert.Equal(t, MinIterations, r.Iterations)
	}

	rec = Recommend(sc, candidates, 100000, randutil.New(1))
	for _, r := range rec.Alternatives {
		assert.Equal(t, MaxBudget/2, r.Iterations)
	}
}

func TestRankUsesFixedTrialsPerAction(t *testing.T) {
	sc := Scenario{Shoe: tens(t), Player: []deck.Rank{deck.Ten, deck.Six}, DealerUp: deck.Ten, Bet: 50}
	rec := Rank(sc, []Candidate{{Action: Hit}, {Action: Stand}}, 400, randutil.New(3))

	assert.True(t, rec.Available)
	assert.Len(t, rec.Alternatives, 2)
	for _, alt := range rec.Alternatives {
		assert.Equal(t, 400, alt.Iterations)
	}
	assert.Equal(t, fmt.Sprintf("best EV %+.2f", rec.Result.MeanEV), rec.Reason)

	empty := Rank(sc, nil, 400, randutil.New(3))
	assert.False(t, empty.Available)
}
