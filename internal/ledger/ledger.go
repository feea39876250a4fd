// Package ledger keeps the append-only history of settled rounds.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/gameid"
	"github.com/lox/shoecount/internal/settlement"
)

// ErrInconsistentRecord is returned when a record's nets don't add up.
var ErrInconsistentRecord = errors.New("ledger: inconsistent record")

// Hand is a settled player hand as it stood at resolution.
type Hand struct {
	Cards     []deck.Rank
	Wager     int
	Doubled   bool
	FromSplit bool
}

// Detail is the settlement of one hand.
type Detail struct {
	Hand    int
	Outcome settlement.Outcome
	Net     int
}

// Record is an immutable snapshot of a settled round.
type Record struct {
	ID             string
	Hands          []Hand
	Dealer         []deck.Rank
	Table          []deck.Rank
	Burn           []deck.Rank
	Details        []Detail
	Net            int
	BankrollBefore int
	BankrollAfter  int
	TrueCount      float64
	ResolvedAt     time.Time
}

// Wagered returns the total stake across all hands.
func (r Record) Wagered() int {
	total := 0
	for _, h := range r.Hands {
		total += h.Wager
	}
	return total
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Hands = make([]Hand, len(r.Hands))
	for i, h := range r.Hands {
		h.Cards = slices.Clone(h.Cards)
		out.Hands[i] = h
	}
	out.Dealer = slices.Clone(r.Dealer)
	out.Table = slices.Clone(r.Table)
	out.Burn = slices.Clone(r.Burn)
	out.Details = slices.Clone(r.Details)
	return out
}

// Validate checks the record's internal arithmetic.
func (r Record) Validate() error {
	if err := gameid.Validate(r.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrInconsistentRecord, err)
	}
	if len(r.Details) != len(r.Hands) {
		return fmt.Errorf("%w: %d details for %d hands", ErrInconsistentRecord, len(r.Details), len(r.Hands))
	}
	sum := 0
	for _, d := range r.Details {
		sum += d.Net
	}
	if sum != r.Net {
		return fmt.Errorf("%w: details sum to %d, net is %d", ErrInconsistentRecord, sum, r.Net)
	}
	if r.BankrollAfter-r.BankrollBefore != r.Net {
		return fmt.Errorf("%w: bankroll moved %d, net is %d", ErrInconsistentRecord, r.BankrollAfter-r.BankrollBefore, r.Net)
	}
	return nil
}

// Ledger is an append-only list of records. Records are copied on the way in
// and out so nothing held by a caller can change history.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append validates and stores a record.
func (l *Ledger) Append(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r.Clone())
	return nil
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Records returns every record, oldest first.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	for i, r := range l.records {
		out[i] = r.Clone()
	}
	return out
}

// Recent returns up to n records, newest first. n <= 0 returns all of them.
func (l *Ledger) Recent(n int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]Record, 0, n)
	for i := len(l.records) - 1; i >= len(l.records)-n; i-- {
		out = append(out, l.records[i].Clone())
	}
	return out
}

// Last returns the most recent record.
func (l *Ledger) Last() (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1].Clone(), true
}

// Net returns the summed net of every record.
func (l *Ledger) Net() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0
	for _, r := range l.records {
		total += r.Net
	}
	return total
}
