// Package session serializes access to an engine and keeps its
// recommendation fresh. Front ends drive a Session rather than the engine.
package session

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/command"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/sidebet"
	"github.com/lox/shoecount/internal/simulator"
)

// Options configure a Session.
type Options struct {
	Engine   *game.Engine
	SideBets []sidebet.Kind
	// Budget is the simulation budget per decision.
	Budget int
	Delay  time.Duration
	Clock  quartz.Clock
	RNG    *rand.Rand
	Logger *log.Logger
	// OnAdvice receives current recommendations from a background goroutine.
	OnAdvice func(advisor.Advice)
	// OnClear is called, under the session lock, when the round no longer
	// has a hand to advise on.
	OnClear func()
}

// Session owns an engine, its command executor and its advisor.
type Session struct {
	mu      sync.Mutex
	engine  *game.Engine
	exec    *command.Executor
	advisor *advisor.Advisor
	budget  int
	onClear func()
	logger  *log.Logger

	latest    advisor.Advice
	hasAdvice bool
	onAdvice  func(advisor.Advice)
}

// New creates a session around o.Engine.
func New(o Options) *Session {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.RNG == nil {
		o.RNG = randutil.New(rand.Int64())
	}
	if o.Budget <= 0 {
		o.Budget = simulator.MaxBudget
	}

	s := &Session{
		engine:   o.Engine,
		exec:     command.NewExecutor(o.Engine, o.SideBets, o.Logger),
		budget:   o.Budget,
		onClear:  o.OnClear,
		onAdvice: o.OnAdvice,
		logger:   o.Logger.WithPrefix("session"),
	}
	s.advisor = advisor.New(o.Clock, o.Delay, o.RNG, s.deliver, o.Logger)
	return s
}

func (s *Session) deliver(a advisor.Advice) {
	s.mu.Lock()
	// A command may have superseded this result while it waited for the lock
	if !s.advisor.Current(a.Generation) {
		s.mu.Unlock()
		return
	}
	s.latest = a
	s.hasAdvice = true
	s.mu.Unlock()

	if s.onAdvice != nil {
		s.onAdvice(a)
	}
}

// Run parses and executes one command line.
func (s *Session) Run(line string) (command.Result, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return command.Result{}, err
	}
	return s.Execute(cmd)
}

// Execute applies cmd and, if it changed the engine, reschedules advice.
func (s *Session) Execute(cmd command.Command) (command.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.exec.Execute(cmd)
	if err != nil {
		s.logger.Warn("Command rejected", "verb", cmd.Verb, "error", err)
		return res, err
	}
	if res.Mutated {
		s.refreshLocked()
	}
	return res, nil
}

// Refresh reschedules the recommendation for the current state.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
}

func (s *Session) refreshLocked() {
	s.hasAdvice = false
	req, ok := s.engine.AdviceRequest(s.budget)
	if !ok {
		s.advisor.Cancel()
		if s.onClear != nil {
			s.onClear()
		}
		return
	}
	s.advisor.Schedule(req)
}

// Advice returns the latest recommendation that is still current.
func (s *Session) Advice() (advisor.Advice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasAdvice
}

// Current reports whether gen is the advice for the engine's present state.
// Front ends that queue advice check this before showing it.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAdvice && s.latest.Generation == gen
}

// Snapshot returns the engine state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Subscribe registers sub for engine events. Events are published while the
// session lock is held, so subscribers must not call back into the session.
func (s *Session) Subscribe(sub game.EventSubscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Subscribe(sub)
}

// Close stops the advisor and waits for in-flight simulations.
func (s *Session) Close() {
	s.advisor.Close()
}
