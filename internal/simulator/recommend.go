package simulator

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/shoecount/internal/evaluator"
)

const (
	// MinBudget and MaxBudget clamp the total trials spent on one
	// recommendation so it returns interactively.
	MinBudget = 300
	MaxBudget = 2400
)

// Candidate is a legal action offered for evaluation.
type Candidate struct {
	Action Action
	Reason string
}

// Recommendation is the outcome of ranking candidates by mean EV.
type Recommendation struct {
	Available    bool
	Action       Action
	Reason       string
	Result       Result
	Alternatives []Result
}

// Unavailable builds a recommendation that carries only a reason.
func Unavailable(reason string) Recommendation {
	return Recommendation{Reason: reason}
}

// Recommend ranks candidates by simulated mean EV. Obvious hands are answered
// without simulating. Candidates are evaluated in the order stand, hit,
// double, split and a later candidate only wins with a strictly greater EV.
func Recommend(sc Scenario, candidates []Candidate, budget int, rng *rand.Rand) Recommendation {
	if len(sc.Player) == 0 {
		return Unavailable("no hand")
	}

	v := evaluator.Evaluate(sc.Player)
	switch {
	case v.Bust():
		return Unavailable("player bust")
	case v.Total == evaluator.Blackjack && len(sc.Player) >= 2:
		return quick(Stand, "21 - stand")
	case v.Hard() && v.Total >= 20:
		return quick(Stand, fmt.Sprintf("hard %d - stand", v.Total))
	}

	if sc.Shoe.IsEmpty() || len(candidates) == 0 {
		return Unavailable("no recommendation available")
	}

	budget = min(MaxBudget, max(MinBudget, budget))
	return Rank(sc, candidates, max(MinIterations, budget/len(candidates)), rng)
}

// Rank simulates every candidate with the given number of trials and picks
// the best mean EV, with ties going to the earlier action.
func Rank(sc Scenario, candidates []Candidate, perAction int, rng *rand.Rand) Recommendation {
	if len(candidates) == 0 {
		return Unavailable("no recommendation available")
	}
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		return int(a.Action) - int(b.Action)
	})

	rec := Recommendation{Available: true}
	for i, c := range ordered {
		res := Simulate(sc, c.Action, perAction, rng)
		rec.Alternatives = append(rec.Alternatives, res)
		if i == 0 || res.MeanEV > rec.Result.MeanEV {
			rec.Action = c.Action
			rec.Reason = c.Reason
			rec.Result = res
		}
	}
	if rec.Reason == "" {
		rec.Reason = fmt.Sprintf("best EV %+.2f", rec.Result.MeanEV)
	}
	return rec
}

func quick(a Action, reason string) Recommendation {
	return Recommendation{Available: true, Action: a, Reason: reason}
}
