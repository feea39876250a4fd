package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/gameid"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/settlement"
)

func record(id string, before, net int) Record {
	return Record{
		ID:             id,
		Hands:          []Hand{{Cards: []deck.Rank{deck.Ten, deck.Nine}, Wager: 100}},
		Dealer:         []deck.Rank{deck.Six, deck.Ten, deck.Ten},
		Details:        []Detail{{Hand: 0, Outcome: settlement.DealerBust, Net: net}},
		Net:            net,
		BankrollBefore: before,
		BankrollAfter:  before + net,
		ResolvedAt:     time.Unix(0, 0),
	}
}

func TestAppendAndRecent(t *testing.T) {
	ids := gameid.NewGenerator(nil, randutil.New(1))
	l := New()

	require.NoError(t, l.Append(record(ids.Next(), 1000, 100)))
	require.NoError(t, l.Append(record(ids.Next(), 1100, -100)))
	require.NoError(t, l.Append(record(ids.Next(), 1000, 50)))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 50, l.Net())

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, 50, recent[0].Net)
	assert.Equal(t, -100, recent[1].Net)

	assert.Len(t, l.Recent(0), 3)
	assert.Len(t, l.Recent(10), 3)

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, 1050, last.BankrollAfter)
}

func TestRecordsAreCopies(t *testing.T) {
	l := New()
	r := record(gameid.NewGenerator(nil, nil).Next(), 1000, 100)
	require.NoError(t, l.Append(r))

	r.Hands[0].Cards[0] = deck.Two
	got := l.Records()
	assert.Equal(t, deck.Ten, got[0].Hands[0].Cards[0])

	got[0].Dealer[0] = deck.Ace
	assert.Equal(t, deck.Six, l.Records()[0].Dealer[0])
}

func TestAppendRejectsInconsistent(t *testing.T) {
	ids := gameid.NewGenerator(nil, nil)

	bad := record(ids.Next(), 1000, 100)
	bad.Net = 50
	assert.ErrorIs(t, New().Append(bad), ErrInconsistentRecord)

	bad = record(ids.Next(), 1000, 100)
	bad.BankrollAfter = 1000
	assert.ErrorIs(t, New().Append(bad), ErrInconsistentRecord)

	bad = record("not-an-id", 1000, 100)
	assert.ErrorIs(t, New().Append(bad), ErrInconsistentRecord)
}

func TestEmptyLedger(t *testing.T) {
	l := New()
	_, ok := l.Last()
	assert.False(t, ok)
	assert.Empty(t, l.Recent(5))
	assert.Zero(t, l.Net())
}

func TestWagered(t *testing.T) {
	r := Record{Hands: []Hand{{Wager: 100}, {Wager: 200, Doubled: true}}}
	assert.Equal(t, 300, r.Wagered())
}
