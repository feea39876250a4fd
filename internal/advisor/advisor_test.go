package advisor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/simulator"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func request(t *testing.T, hand int, player ...deck.Rank) Request {
	t.Helper()
	shoe, err := deck.NewShoe(6)
	require.NoError(t, err)
	return Request{
		Hand: hand,
		Scenario: simulator.Scenario{
			Shoe:     shoe.Snapshot(),
			Player:   player,
			DealerUp: deck.Ten,
			Bet:      100,
		},
		Candidates: []simulator.Candidate{{Action: simulator.Hit}, {Action: simulator.Stand}},
		Budget:     300,
	}
}

func waitAdvice(t *testing.T, ch <-chan Advice) Advice {
	t.Helper()
	select {
	case adv := <-ch:
		return adv
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for advice")
	}
	return Advice{}
}

func TestScheduleDebounces(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	results := make(chan Advice, 4)
	a := New(clock, DefaultDelay, randutil.New(1), func(adv Advice) { results <- adv }, quietLogger())
	defer a.Close()

	first := a.Schedule(request(t, 0, deck.Ten, deck.Six))
	clock.Advance(50 * time.Millisecond).MustWait(ctx)
	second := a.Schedule(request(t, 1, deck.Ten, deck.Five))
	assert.Greater(t, second, first)

	// The first timer was stopped, so nothing fires until the second is due
	clock.Advance(DefaultDelay).MustWait(ctx)

	adv := waitAdvice(t, results)
	assert.Equal(t, second, adv.Generation)
	assert.Equal(t, 1, adv.Hand)
	assert.True(t, adv.Recommendation.Available)
	assert.Zero(t, adv.Elapsed, "elapsed is measured on the advisor clock")

	select {
	case extra := <-results:
		t.Fatalf("unexpected extra delivery: %+v", extra)
	default:
	}
}

func TestCancelDropsPending(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	results := make(chan Advice, 1)
	a := New(clock, DefaultDelay, randutil.New(1), func(adv Advice) { results <- adv }, quietLogger())

	a.Schedule(request(t, 0, deck.Ten, deck.Six))
	a.Cancel()
	clock.Advance(DefaultDelay).MustWait(ctx)
	a.Close()

	assert.Empty(t, results)
}

func TestStaleResultDropped(t *testing.T) {
	clock := quartz.NewMock(t)
	results := make(chan Advice, 1)
	a := New(clock, DefaultDelay, randutil.New(1), func(adv Advice) { results <- adv }, quietLogger())

	gen := a.Schedule(request(t, 0, deck.Ten, deck.Six))
	a.Cancel()

	// Run directly as if the timer had fired just before the cancel
	a.run(gen, 1, request(t, 0, deck.Ten, deck.Six))
	assert.Empty(t, results)
	assert.False(t, a.Current(gen))
	a.Close()
}

func TestSameSeedSameAdvice(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	advise := func() Advice {
		clock := quartz.NewMock(t)
		results := make(chan Advice, 1)
		a := New(clock, DefaultDelay, randutil.New(77), func(adv Advice) { results <- adv }, quietLogger())
		defer a.Close()
		a.Schedule(request(t, 0, deck.Ace, deck.Six))
		clock.Advance(DefaultDelay).MustWait(ctx)
		return waitAdvice(t, results)
	}

	first, second := advise(), advise()
	assert.Equal(t, first.Recommendation, second.Recommendation)
}

func TestDefaultDelay(t *testing.T) {
	a := New(quartz.NewMock(t), 0, randutil.New(1), func(Advice) {}, quietLogger())
	assert.Equal(t, DefaultDelay, a.delay)
}
