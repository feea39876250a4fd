package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/shoecount/internal/betting"
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/gameid"
	"github.com/lox/shoecount/internal/ledger"
	"github.com/lox/shoecount/internal/randutil"
)

// Settings are the session inputs the engine starts from.
type Settings struct {
	Decks int
	// DecksRemaining is the player's estimate used for the true count. Zero
	// means "use Decks".
	DecksRemaining float64
	Bankroll       int
	SixCardCharlie bool
	Betting        betting.Advisor
}

// DefaultSettings returns an eight deck shoe with a 1000 chip bankroll.
func DefaultSettings() Settings {
	return Settings{
		Decks:    8,
		Bankroll: 1000,
		Betting:  betting.NewAdvisor(betting.DefaultMinBet, betting.DefaultStep),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for event and record timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLedger resumes an existing ledger instead of starting empty.
func WithLedger(l *ledger.Ledger) Option {
	return func(e *Engine) { e.ledger = l }
}

// Engine is the single-seat round state machine.
type Engine struct {
	logger *log.Logger
	rng    *rand.Rand
	clock  quartz.Clock
	ids    *gameid.Generator
	bus    *SimpleEventBus
	bets   betting.Advisor

	shoe           *deck.Shoe
	decksRemaining float64
	bankroll       int
	charlie        bool

	round  *Round
	table  []deck.Rank
	burn   []deck.Rank
	ledger *ledger.Ledger
}

// NewEngine validates settings and creates an idle engine.
func NewEngine(s Settings, rng *rand.Rand, logger *log.Logger, opts ...Option) (*Engine, error) {
	shoe, err := deck.NewShoe(s.Decks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if s.Bankroll < 0 {
		return nil, invalid("bankroll must not be negative, got %d", s.Bankroll)
	}
	if err := checkDecksRemaining(s.DecksRemaining); err != nil {
		return nil, err
	}
	if s.Betting.MinBet <= 0 || s.Betting.Step <= 0 {
		s.Betting = betting.NewAdvisor(betting.DefaultMinBet, betting.DefaultStep)
	}

	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = randutil.New(rand.Int64())
	}

	e := &Engine{
		logger:         logger.WithPrefix("engine"),
		rng:            rng,
		bus:            NewEventBus(),
		bets:           s.Betting,
		shoe:           shoe,
		decksRemaining: s.DecksRemaining,
		bankroll:       s.Bankroll,
		charlie:        s.SixCardCharlie,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.ledger == nil {
		e.ledger = ledger.New()
	}
	e.ids = gameid.NewGenerator(e.clock, nil)

	e.logger.Debug("Engine created", "decks", s.Decks, "bankroll", s.Bankroll, "charlie", s.SixCardCharlie)
	return e, nil
}

func checkDecksRemaining(d float64) error {
	if d < 0 || d > deck.MaxDecks {
		return invalid("decks remaining must be in [0, %d], got %g", deck.MaxDecks, d)
	}
	return nil
}

// Subscribe registers for engine events and returns an unsubscribe func.
func (e *Engine) Subscribe(sub EventSubscriber) func() {
	return e.bus.Subscribe(sub)
}

func (e *Engine) publish(event Event) {
	e.bus.Publish(event)
}

// ResetShoe rebuilds the shoe with decks full decks. It is rejected while a
// round is in progress. The table and burn piles are cleared; the ledger and
// bankroll are kept.
func (e *Engine) ResetShoe(decks int) error {
	if e.round != nil {
		return illegal("cancel or resolve the active round first")
	}
	if err := e.shoe.Reset(decks); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	e.decksRemaining = 0
	e.table = nil
	e.burn = nil

	e.logger.Info("Shoe reset", "decks", decks)
	e.publish(ShoeResetEvent{Decks: decks, timestamp: e.clock.Now()})
	return nil
}

// SetDecksRemaining sets the decks-remaining estimate. Zero restores the
// default of the shoe's deck count.
func (e *Engine) SetDecksRemaining(d float64) error {
	if err := checkDecksRemaining(d); err != nil {
		return err
	}
	e.decksRemaining = d
	e.publish(SettingEvent{Name: "decks remaining", Value: fmt.Sprintf("%g", e.DecksRemaining()), timestamp: e.clock.Now()})
	return nil
}

// SetBankroll replaces the bankroll.
func (e *Engine) SetBankroll(b int) error {
	if b < 0 {
		return invalid("bankroll must not be negative, got %d", b)
	}
	e.bankroll = b
	e.publish(SettingEvent{Name: "bankroll", Value: fmt.Sprint(b), timestamp: e.clock.Now()})
	return nil
}

// SetSixCardCharlie toggles the six-card charlie rule.
func (e *Engine) SetSixCardCharlie(on bool) {
	e.charlie = on
	e.publish(SettingEvent{Name: "six card charlie", Value: fmt.Sprint(on), timestamp: e.clock.Now()})
}

// StartRound opens a round with one empty hand. A bet of zero or less takes
// the suggested bet. The wager is normalized to the betting step.
func (e *Engine) StartRound(bet int) error {
	if e.round != nil {
		return illegal("finish the active round first")
	}
	if bet <= 0 {
		bet = e.SuggestedBet()
	}
	wager := e.bets.Normalize(bet)
	if wager > e.bankroll {
		return illegal("insufficient bankroll %d for bet %d", e.bankroll, wager)
	}

	e.round = &Round{
		Hands:      []*Hand{{Wager: wager}},
		startShoe:  e.shoe.Snapshot(),
		startTable: slices.Clone(e.table),
		startBurn:  slices.Clone(e.burn),
	}

	e.logger.Info("Round started", "wager", wager, "tc", e.TrueCount())
	e.publish(RoundStartEvent{Wager: wager, timestamp: e.clock.Now()})
	return nil
}

// CancelRound discards the round and puts the shoe and the table and burn
// piles back the way they were when the round started.
func (e *Engine) CancelRound() error {
	r, err := e.active()
	if err != nil {
		return err
	}

	returned := r.startShoe.Total() - e.shoe.Total()
	*e.shoe = r.startShoe
	e.table = r.startTable
	e.burn = r.startBurn
	e.round = nil

	e.logger.Info("Round canceled", "returned", returned)
	e.publish(RoundCancelEvent{Returned: returned, timestamp: e.clock.Now()})
	return nil
}

// active returns the round if mutations are currently legal
func (e *Engine) active() (*Round, error) {
	if e.round == nil {
		return nil, illegal("no active round")
	}
	if e.round.Locked {
		return nil, illegal("round is locked")
	}
	return e.round, nil
}

// take consumes rank from the live shoe, or a random remaining card for
// deck.NoRank.
func (e *Engine) take(rank deck.Rank) (deck.Rank, error) {
	if rank == deck.NoRank {
		snap := e.shoe.Snapshot()
		drawn, ok := snap.Draw(e.rng)
		if !ok {
			return deck.NoRank, exhausted("shoe is empty")
		}
		rank = drawn
	}
	if !rank.Valid() {
		return deck.NoRank, illegal("invalid rank %d", int(rank))
	}
	if !e.shoe.Consume(rank) {
		return deck.NoRank, exhausted("no %s left in shoe", rank)
	}
	return rank, nil
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	switch {
	case e.round == nil:
		return Idle
	case e.round.Locked:
		return Locked
	}
	return Active
}

// DecksRemaining returns the effective decks-remaining estimate.
func (e *Engine) DecksRemaining() float64 {
	if e.decksRemaining == 0 {
		return float64(e.shoe.Decks())
	}
	return e.decksRemaining
}

// TrueCount returns the running count over the decks-remaining estimate.
func (e *Engine) TrueCount() float64 {
	return e.shoe.TrueCount(e.DecksRemaining())
}

// SuggestedBet returns the bet advisor's wager for the current count.
func (e *Engine) SuggestedBet() int {
	return e.bets.SuggestBet(e.bankroll, e.TrueCount())
}

// BetAdvisor returns the bet sizing table in use.
func (e *Engine) BetAdvisor() betting.Advisor {
	return e.bets
}

// Bankroll returns the current bankroll.
func (e *Engine) Bankroll() int {
	return e.bankroll
}

// SixCardCharlie reports whether the charlie rule is on.
func (e *Engine) SixCardCharlie() bool {
	return e.charlie
}

// Shoe returns a copy of the live shoe.
func (e *Engine) Shoe() deck.Shoe {
	return e.shoe.Snapshot()
}

// Ledger returns the settled round history.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// RoundView is a copy of the round for rendering.
type RoundView struct {
	Hands     []Hand
	Dealer    []deck.Rank
	SplitUsed bool
	Active    int
}

// Snapshot is a read-only copy of everything a front end renders.
type Snapshot struct {
	State          State
	Counts         [deck.NumRanks]int
	Remaining      int
	Seen           int
	Running        int
	Decks          int
	DecksRemaining float64
	TrueCount      float64
	Bankroll       int
	SuggestedBet   int
	SixCardCharlie bool
	Round          *RoundView
	Table          []deck.Rank
	Burn           []deck.Rank
	Rounds         int
}

// Snapshot captures the engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:          e.State(),
		Counts:         e.shoe.Counts(),
		Remaining:      e.shoe.Total(),
		Seen:           e.shoe.Seen(),
		Running:        e.shoe.Running(),
		Decks:          e.shoe.Decks(),
		DecksRemaining: e.DecksRemaining(),
		TrueCount:      e.TrueCount(),
		Bankroll:       e.bankroll,
		SuggestedBet:   e.SuggestedBet(),
		SixCardCharlie: e.charlie,
		Table:          slices.Clone(e.table),
		Burn:           slices.Clone(e.burn),
		Rounds:         e.ledger.Len(),
	}
	if r := e.round; r != nil {
		view := &RoundView{
			Dealer:    slices.Clone(r.Dealer),
			SplitUsed: r.SplitUsed,
			Active:    r.Active,
		}
		for _, h := range r.Hands {
			view.Hands = append(view.Hands, h.clone())
		}
		s.Round = view
	}
	return s
}
