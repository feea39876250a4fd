// Package simulator estimates the expected value of blackjack actions by
// sampling completions of the current round from a snapshot of the shoe.
package simulator

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/settlement"
	"github.com/lox/shoecount/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Action is a player decision the simulator can evaluate.
type Action int

const (
	Stand Action = iota
	Hit
	Double
	Split
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Double:
		return "double"
	case Split:
		return "split"
	}
	return "unknown"
}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stand", "s":
		return Stand, nil
	case "hit", "h":
		return Hit, nil
	case "double", "d":
		return Double, nil
	case "split", "p":
		return Split, nil
	}
	return Stand, fmt.Errorf("unknown action: %q", s)
}

const (
	// MinIterations bounds the variance of a single estimate.
	MinIterations = 200

	parallelThreshold = 1000
	trialsPerWorker   = 250
	maxWorkers        = 8

	// playerHardStand and playerSoftStand define the fixed policy followed
	// after a hit: draw to hard 17 or soft 18.
	playerHardStand = 17
	playerSoftStand = 18
)

// Scenario is everything a trial needs. Shoe is held by value, so a Scenario
// never aliases the live tracker.
type Scenario struct {
	Shoe           deck.Shoe
	Player         []deck.Rank
	DealerUp       deck.Rank
	Bet            int
	PostSplit      bool
	SixCardCharlie bool
}

// Result holds aggregated trial outcomes for one action.
type Result struct {
	Action     Action
	Iterations int
	Wins       int
	Pushes     int
	Losses     int
	WinRate    float64
	PushRate   float64
	LossRate   float64
	MeanEV     float64
}

// tally accumulates trial outcomes for a worker
type tally struct {
	wins   int
	pushes int
	losses int
	ev     float64
}

func (t *tally) add(other tally) {
	t.wins += other.wins
	t.pushes += other.pushes
	t.losses += other.losses
	t.ev += other.ev
}

func (t tally) result(action Action, iterations int) Result {
	n := float64(iterations)
	return Result{
		Action:     action,
		Iterations: iterations,
		Wins:       t.wins,
		Pushes:     t.pushes,
		Losses:     t.losses,
		WinRate:    float64(t.wins) / n,
		PushRate:   float64(t.pushes) / n,
		LossRate:   float64(t.losses) / n,
		MeanEV:     t.ev / n,
	}
}

// Simulate runs at least MinIterations independent trials of action and
// returns the observed rates and mean EV in chips. For a fixed rng seed and
// scenario the result is reproducible.
func Simulate(sc Scenario, action Action, iterations int, rng *rand.Rand) Result {
	iters := max(MinIterations, iterations)
	if iters < parallelThreshold {
		return runTrials(sc, action, iters, rng).result(action, iters)
	}
	return simulateParallel(sc, action, iters, rng)
}

// simulateParallel splits trials across workers. The worker count depends only
// on the iteration count and results are combined in worker order, so the
// outcome does not vary with scheduling or CPU count.
func simulateParallel(sc Scenario, action Action, iters int, rng *rand.Rand) Result {
	workers := min(maxWorkers, iters/trialsPerWorker)
	perWorker := iters / workers
	remainder := iters % workers

	// Draw worker streams up front so they don't depend on goroutine order
	rngs := make([]*rand.Rand, workers)
	for w := range rngs {
		rngs[w] = randutil.Fork(rng)
	}

	results := make([]tally, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		g.Go(func() error {
			results[w] = runTrials(sc, action, n, rngs[w])
			return nil
		})
	}
	_ = g.Wait()

	var total tally
	for _, r := range results {
		total.add(r)
	}
	return total.result(action, iters)
}

// runTrials runs n sequential trials with a single rng
func runTrials(sc Scenario, action Action, n int, rng *rand.Rand) tally {
	var t tally
	player := make([]deck.Rank, 0, 12)
	second := make([]deck.Rank, 0, 12)
	dealer := make([]deck.Rank, 0, 10)

	for i := 0; i < n; i++ {
		result, ev := trial(sc, action, rng, player[:0], second[:0], dealer[:0])
		switch result {
		case settlement.Win:
			t.wins++
		case settlement.Tie:
			t.pushes++
		default:
			t.losses++
		}
		t.ev += ev
	}
	return t
}

// trial plays one randomized completion of the round. The buffers are reused
// across trials by the caller; the shoe is copied per trial.
func trial(sc Scenario, action Action, rng *rand.Rand, player, second, dealer []deck.Rank) (settlement.Result, float64) {
	shoe := sc.Shoe
	rules := settlement.Rules{SixCardCharlie: sc.SixCardCharlie}

	if sc.DealerUp.Valid() {
		dealer = append(dealer, sc.DealerUp)
		if hole, ok := shoe.Draw(rng); ok {
			dealer = append(dealer, hole)
		}
	}

	if action == Split {
		if len(sc.Player) == 2 && isPair(sc.Player[0], sc.Player[1]) {
			return splitTrial(sc, &shoe, rng, second, dealer, rules)
		}
		action = Stand
	}

	player = append(player, sc.Player...)
	stake := 1

	switch action {
	case Hit:
		if c, ok := shoe.Draw(rng); ok {
			player = append(player, c)
		}
		player = followPolicy(player, &shoe, rng, sc.SixCardCharlie)
	case Double:
		stake = 2
		if c, ok := shoe.Draw(rng); ok {
			player = append(player, c)
		}
	}

	dealer = playDealer(dealer, &shoe, rng)

	natural := !sc.PostSplit && evaluator.IsBlackjack(sc.Player)
	outcome := settlement.Settle(player, natural, dealer, rules)
	return outcome.Result(), payout(outcome, stake, sc.Bet)
}

// splitTrial plays both halves of a split pair, one card each then the fixed
// policy, and settles them against one dealer hand. The trial counts as a win,
// push or loss by the sign of the combined result.
func splitTrial(sc Scenario, shoe *deck.Shoe, rng *rand.Rand, buf, dealer []deck.Rank, rules settlement.Rules) (settlement.Result, float64) {
	hands := [2][]deck.Rank{
		{sc.Player[0]},
		append(buf, sc.Player[1]),
	}
	for i := range hands {
		if c, ok := shoe.Draw(rng); ok {
			hands[i] = append(hands[i], c)
		}
		hands[i] = followPolicy(hands[i], shoe, rng, sc.SixCardCharlie)
	}

	dealer = playDealer(dealer, shoe, rng)

	var ev float64
	for _, h := range hands {
		ev += payout(settlement.Settle(h, false, dealer, rules), 1, sc.Bet)
	}

	switch {
	case ev > 0:
		return settlement.Win, ev
	case ev < 0:
		return settlement.Loss, ev
	}
	return settlement.Tie, ev
}

// payout converts an outcome into chips. A natural pays 1.5x the bet
// regardless of stake.
func payout(o settlement.Outcome, stake, bet int) float64 {
	if o == settlement.Blackjack {
		return o.Units() * float64(bet)
	}
	return o.Units() * float64(stake*bet)
}

// followPolicy draws while the hand is below hard 17 or soft 18. With the
// charlie rule enabled the player stops at six cards.
func followPolicy(hand []deck.Rank, shoe *deck.Shoe, rng *rand.Rand, charlie bool) []deck.Rank {
	for {
		v := evaluator.Evaluate(hand)
		if v.Soft() && v.Total >= playerSoftStand {
			return hand
		}
		if v.Hard() && v.Total >= playerHardStand {
			return hand
		}
		if charlie && len(hand) >= evaluator.CharlieCards {
			return hand
		}
		c, ok := shoe.Draw(rng)
		if !ok {
			return hand
		}
		hand = append(hand, c)
	}
}

// playDealer draws until the dealer reaches 17 or the shoe runs out.
func playDealer(dealer []deck.Rank, shoe *deck.Shoe, rng *rand.Rand) []deck.Rank {
	for settlement.DealerShouldDraw(dealer) {
		c, ok := shoe.Draw(rng)
		if !ok {
			break
		}
		dealer = append(dealer, c)
	}
	return dealer
}

func isPair(a, b deck.Rank) bool {
	_, ok := strategy.PairRank(a, b)
	return ok
}
