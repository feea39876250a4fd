package game

import (
	"io"
	"slices"
	"testing"

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

func newTestEngine(t *testing.T, s Settings) *Engine {
	t.Helper()
	e, err := NewEngine(s, randutil.New(42), quietLogger(), WithClock(quartz.NewMock(t)))
	require.NoError(t, err)
	return e
}

// drainExcept consumes every remaining card of the ranks not in keep, so the
// shoe's next draws are predictable.
func drainExcept(t *testing.T, e *Engine, keep ...deck.Rank) {
	t.Helper()
	for _, r := range deck.Ranks {
		if slices.Contains(keep, r) {
			continue
		}
		for e.shoe.Remaining(r) > 0 {
			require.True(t, e.shoe.Consume(r))
		}
	}
}

func mustDeal(t *testing.T, e *Engine, ranks ...deck.Rank) {
	t.Helper()
	for _, r := range ranks {
		_, err := e.Hit(r)
		require.NoError(t, err)
	}
}

func TestNewEngineValidation(t *testing.T) {
	s := DefaultSettings()
	s.Decks = 9
	_, err := NewEngine(s, randutil.New(1), quietLogger())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	s = DefaultSettings()
	s.Bankroll = -1
	_, err = NewEngine(s, randutil.New(1), quietLogger())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	s = DefaultSettings()
	s.DecksRemaining = 12
	_, err = NewEngine(s, randutil.New(1), quietLogger())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestStartRound(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())

	require.NoError(t, e.StartRound(120))
	assert.Equal(t, Active, e.State())
	assert.Equal(t, 100, e.round.Hands[0].Wager)

	err := e.StartRound(100)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Len(t, e.round.Hands, 1)
}

func TestStartRoundSuggestedAndBankroll(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(0))
	assert.Equal(t, e.BetAdvisor().MinBet, e.round.Hands[0].Wager)
	require.NoError(t, e.CancelRound())

	require.NoError(t, e.SetBankroll(100))
	assert.ErrorIs(t, e.StartRound(200), ErrIllegalTransition)
	assert.Equal(t, Idle, e.State())
}

func TestCommandsNeedRound(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())

	_, err := e.Hit(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = e.Double(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, e.Stand(), ErrIllegalTransition)
	assert.ErrorIs(t, e.Split(), ErrIllegalTransition)
	_, err = e.AddDealerCard(deck.Six)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, e.CancelRound(), ErrIllegalTransition)
	_, err = e.Resolve()
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, 0, e.Shoe().Seen())
}

func TestHitExhaustedRank(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	drainExcept(t, e, deck.Two)
	before := e.Shoe()

	_, err := e.Hit(deck.Ten)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.Empty(t, e.round.Hands[0].Cards)
	assert.Equal(t, before, e.Shoe())
}

func TestHitBustFinishesHand(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Ten, deck.Six, deck.King)

	h := e.round.Hands[0]
	assert.True(t, h.Finished)
	assert.False(t, h.Stood)

	_, err := e.Hit(deck.Two)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Len(t, h.Cards, 3)
}

func TestHitRandomDraw(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))

	card, err := e.Hit(deck.NoRank)
	require.NoError(t, err)
	assert.True(t, card.Valid())
	assert.Equal(t, 1, e.Shoe().Seen())
	assert.Equal(t, []deck.Rank{card}, e.round.Hands[0].Cards)
}

func TestHitRandomEmptyShoe(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	drainExcept(t, e)

	_, err := e.Hit(deck.NoRank)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestDouble(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))

	mustDeal(t, e, deck.Five)
	_, err := e.Double(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition, "one card")

	mustDeal(t, e, deck.Six)
	card, err := e.Double(deck.Ten)
	require.NoError(t, err)
	assert.Equal(t, deck.Ten, card)

	h := e.round.Hands[0]
	assert.Equal(t, 200, h.Wager)
	assert.True(t, h.Doubled)
	assert.True(t, h.Finished)
	assert.Len(t, h.Cards, 3)

	_, err = e.Double(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDoubleInsufficientBankrollReturnsCard(t *testing.T) {
	s := DefaultSettings()
	s.Bankroll = 150
	e := newTestEngine(t, s)
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Five, deck.Six)
	before := e.Shoe()

	_, err := e.Double(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, before, e.Shoe())

	h := e.round.Hands[0]
	assert.Equal(t, 100, h.Wager)
	assert.False(t, h.Doubled)
	assert.Len(t, h.Cards, 2)
}

func TestSplit(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Eight, deck.Eight)

	require.NoError(t, e.Split())
	require.Len(t, e.round.Hands, 2)
	for _, h := range e.round.Hands {
		assert.Equal(t, []deck.Rank{deck.Eight}, h.Cards)
		assert.Equal(t, 100, h.Wager)
		assert.True(t, h.FromSplit)
	}
	assert.True(t, e.round.SplitUsed)

	assert.ErrorIs(t, e.Split(), ErrIllegalTransition)

	mustDeal(t, e, deck.Three)
	_, err := e.Double(deck.Ten)
	assert.ErrorIs(t, err, ErrIllegalTransition, "no double after split")
}

func TestSplitTenGroupAndAces(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.King, deck.Queen)
	require.NoError(t, e.Split())
	require.NoError(t, e.CancelRound())

	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Ace, deck.Ace)
	require.NoError(t, e.Split())
	assert.True(t, e.round.Hands[0].SplitAce)
	assert.True(t, e.round.Hands[1].SplitAce)
}

func TestSplitRejected(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Eight)
	assert.ErrorIs(t, e.Split(), ErrIllegalTransition, "one card")

	mustDeal(t, e, deck.Nine)
	assert.ErrorIs(t, e.Split(), ErrIllegalTransition, "not a pair")
	require.NoError(t, e.CancelRound())

	require.NoError(t, e.SetBankroll(150))
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Eight, deck.Eight)
	assert.ErrorIs(t, e.Split(), ErrIllegalTransition, "bankroll")
	assert.Len(t, e.round.Hands, 1)
}

func TestStandAdvancesToNextHand(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Nine, deck.Nine)
	require.NoError(t, e.Split())

	mustDeal(t, e, deck.Ten)
	require.NoError(t, e.Stand())
	assert.Equal(t, 1, e.round.Active)
	assert.ErrorIs(t, e.SelectHand(2), ErrIllegalTransition)

	require.NoError(t, e.SelectHand(0))
	assert.ErrorIs(t, e.Stand(), ErrIllegalTransition)
}

func TestCancelRestoresShoe(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	before := e.Shoe()

	require.NoError(t, e.StartRound(100))
	_, err := e.AddTableCard(deck.Two)
	require.NoError(t, err)
	_, err = e.AddBurnCard(deck.Three)
	require.NoError(t, err)
	mustDeal(t, e, deck.Eight, deck.Eight)
	require.NoError(t, e.Split())
	mustDeal(t, e, deck.Ace)
	_, err = e.AddDealerCard(deck.Six)
	require.NoError(t, err)

	require.NoError(t, e.CancelRound())
	assert.Equal(t, before, e.Shoe())
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, e.Snapshot().Table)
	assert.Empty(t, e.Snapshot().Burn)
	assert.Zero(t, e.Ledger().Len())
}

func TestCancelKeepsCardsSeenBeforeRound(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	_, err := e.AddTableCard(deck.Two)
	require.NoError(t, err)
	_, err = e.AddBurnCard(deck.Five)
	require.NoError(t, err)
	before := e.Shoe()
	require.Equal(t, 2, before.Seen())
	require.Equal(t, 2, before.Running())

	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Ten, deck.Nine)
	_, err = e.AddTableCard(deck.Four)
	require.NoError(t, err)
	require.NoError(t, e.CancelRound())

	assert.Equal(t, before, e.Shoe())
	assert.Equal(t, []deck.Rank{deck.Two}, e.Snapshot().Table)
	assert.Equal(t, []deck.Rank{deck.Five}, e.Snapshot().Burn)
}

func TestNewEngineDefaultsRNG(t *testing.T) {
	e, err := NewEngine(DefaultSettings(), nil, quietLogger(), WithClock(quartz.NewMock(t)))
	require.NoError(t, err)
	require.NoError(t, e.StartRound(100))

	card, err := e.Hit(deck.NoRank)
	require.NoError(t, err)
	assert.True(t, card.Valid())
	assert.Equal(t, 1, e.Shoe().Seen())
}

func TestResetShoe(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	require.NoError(t, e.StartRound(100))
	assert.ErrorIs(t, e.ResetShoe(6), ErrIllegalTransition)
	require.NoError(t, e.CancelRound())

	_, err := e.AddTableCard(deck.Five)
	require.NoError(t, err)
	assert.ErrorIs(t, e.ResetShoe(0), ErrInvalidConfiguration)
	assert.Equal(t, 8, e.Shoe().Decks())

	require.NoError(t, e.ResetShoe(6))
	assert.Equal(t, 6*52, e.Shoe().Total())
	assert.Empty(t, e.Snapshot().Table)
}

func TestTrueCountUsesDecksRemaining(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	for i := 0; i < 5; i++ {
		_, err := e.AddTableCard(deck.Two)
		require.NoError(t, err)
	}
	assert.InDelta(t, 5.0/8, e.TrueCount(), 1e-9)

	require.NoError(t, e.SetDecksRemaining(2))
	assert.InDelta(t, 2.5, e.TrueCount(), 1e-9)

	assert.ErrorIs(t, e.SetDecksRemaining(-1), ErrInvalidConfiguration)
	require.NoError(t, e.SetDecksRemaining(0))
	assert.Equal(t, 8.0, e.DecksRemaining())
}

func TestSetBankroll(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	assert.ErrorIs(t, e.SetBankroll(-5), ErrInvalidConfiguration)
	assert.Equal(t, 1000, e.Bankroll())
	require.NoError(t, e.SetBankroll(5000))
	assert.Equal(t, 5000, e.Bankroll())
}

func TestAdviceRequest(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	_, ok := e.AdviceRequest(1000)
	assert.False(t, ok)

	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Five, deck.Six)
	_, err := e.AddDealerCard(deck.Six)
	require.NoError(t, err)

	req, ok := e.AdviceRequest(1000)
	require.True(t, ok)
	assert.Equal(t, 0, req.Hand)
	assert.Equal(t, deck.Six, req.Scenario.DealerUp)
	assert.Equal(t, 100, req.Scenario.Bet)
	assert.Equal(t, e.Shoe(), req.Scenario.Shoe)

	var actions []simulator.Action
	for _, c := range req.Candidates {
		actions = append(actions, c.Action)
	}
	assert.Contains(t, actions, simulator.Double)
	assert.NotContains(t, actions, simulator.Split)

	// The captured scenario is independent of later play
	mustDeal(t, e, deck.Two)
	assert.Len(t, req.Scenario.Player, 2)
	assert.NotEqual(t, e.Shoe(), req.Scenario.Shoe)
}

func TestEventsPublished(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	var got []EventType
	unsubscribe := e.Subscribe(SubscriberFunc(func(ev Event) {
		got = append(got, ev.EventType())
	}))

	require.NoError(t, e.StartRound(100))
	mustDeal(t, e, deck.Ten, deck.Nine)
	require.NoError(t, e.Stand())
	_, err := e.AddDealerCard(deck.Six)
	require.NoError(t, err)
	_, err = e.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []EventType{
		EventTypeRoundStart,
		EventTypeCard,
		EventTypeCard,
		EventTypeHandAction,
		EventTypeCard,
		EventTypeRoundEnd,
	}, got)

	unsubscribe()
	require.NoError(t, e.StartRound(100))
	assert.Len(t, got, 6)
}

func TestFormatEvent(t *testing.T) {
	assert.Equal(t, "Round started. Bet 100", FormatEvent(RoundStartEvent{Wager: 100}))
	assert.Equal(t, "Player card added to hand 2: 10", FormatEvent(CardEvent{Pile: PlayerPile, Hand: 1, Rank: deck.Ten}))
	assert.Equal(t, "Burned card returned: 3", FormatEvent(CardEvent{Pile: BurnPile, Rank: deck.Three, Returned: true}))
	assert.Equal(t, "Hand 1: stood (19)", FormatEvent(HandActionEvent{Action: "stood", Detail: "19"}))
}

func TestParsePile(t *testing.T) {
	for _, p := range []Pile{PlayerPile, DealerPile, TablePile, BurnPile} {
		got, err := ParsePile(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePile("discard")
	assert.Error(t, err)
}
