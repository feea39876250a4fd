// Package advisor refreshes action recommendations off the caller's
// goroutine. Each Schedule supersedes the previous one: the pending timer is
// stopped, and a simulation that finishes after a newer request was made is
// dropped instead of delivered.
package advisor

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/simulator"
)

// DefaultDelay is the quiescence window before a simulation starts.
const DefaultDelay = 120 * time.Millisecond

// Request is an immutable capture of everything a recommendation needs.
type Request struct {
	Hand       int
	Scenario   simulator.Scenario
	Candidates []simulator.Candidate
	Budget     int
}

// Advice is a delivered recommendation.
type Advice struct {
	Generation     uint64
	Hand           int
	Recommendation simulator.Recommendation
	Elapsed        time.Duration
}

// Advisor debounces recommendation requests.
type Advisor struct {
	logger  *log.Logger
	clock   quartz.Clock
	delay   time.Duration
	deliver func(Advice)

	mu    sync.Mutex
	rng   *rand.Rand
	gen   uint64
	timer *quartz.Timer
	wg    sync.WaitGroup
}

// New creates an advisor. deliver is called from a background goroutine with
// each result that is still current when its simulation completes.
func New(clock quartz.Clock, delay time.Duration, rng *rand.Rand, deliver func(Advice), logger *log.Logger) *Advisor {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Advisor{
		logger:  logger.WithPrefix("advisor"),
		clock:   clock,
		delay:   delay,
		deliver: deliver,
		rng:     rng,
	}
}

// Schedule supersedes any pending request and runs req after the delay. It
// returns the request's generation.
func (a *Advisor) Schedule(req Request) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.gen++
	gen := a.gen
	// Seed drawn now so results depend only on the order of requests
	seed := a.rng.Int64()

	a.wg.Add(1)
	a.timer = a.clock.AfterFunc(a.delay, func() {
		defer a.wg.Done()
		a.run(gen, seed, req)
	}, "advisor", "debounce")

	a.logger.Debug("Scheduled", "generation", gen, "hand", req.Hand, "candidates", len(req.Candidates))
	return gen
}

// Cancel drops the pending request and any in-flight result.
func (a *Advisor) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.gen++
}

// stopLocked stops the pending timer. A timer that never fires releases its
// wait group slot here.
func (a *Advisor) stopLocked() {
	if a.timer != nil && a.timer.Stop() {
		a.wg.Done()
	}
	a.timer = nil
}

// Generation returns the newest generation handed out.
func (a *Advisor) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// Current reports whether gen is still the newest generation.
func (a *Advisor) Current(gen uint64) bool {
	return a.Generation() == gen
}

// Close cancels pending work and waits for in-flight simulations to finish.
func (a *Advisor) Close() {
	a.Cancel()
	a.wg.Wait()
}

func (a *Advisor) run(gen uint64, seed int64, req Request) {
	if !a.Current(gen) {
		a.logger.Debug("Superseded before start", "generation", gen)
		return
	}

	start := a.clock.Now()
	rec := simulator.Recommend(req.Scenario, req.Candidates, req.Budget, randutil.New(seed))
	elapsed := a.clock.Since(start)

	if !a.Current(gen) {
		a.logger.Debug("Dropped stale result", "generation", gen, "elapsed", elapsed)
		return
	}

	a.logger.Debug("Recommendation ready",
		"generation", gen,
		"action", rec.Action,
		"ev", rec.Result.MeanEV,
		"elapsed", elapsed)
	a.deliver(Advice{Generation: gen, Hand: req.Hand, Recommendation: rec, Elapsed: elapsed})
}
