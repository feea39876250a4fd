package deck

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
)

const (
	// MinDecks and MaxDecks bound the shoe size.
	MinDecks = 1
	MaxDecks = 8

	cardsPerRankPerDeck = 4
	cardsPerDeck        = 52

	// minDecksRemaining keeps the true count finite near the end of the shoe.
	minDecksRemaining = 0.1
)

// ErrInvalidDeckCount is returned when a shoe is built outside [MinDecks, MaxDecks].
var ErrInvalidDeckCount = errors.New("deck: deck count out of range")

// Shoe tracks the remaining composition of a multi-deck shoe together with the
// Hi-Lo running count. Cards are never ordered; only per-rank counts are kept.
//
// Shoe holds no pointers, so assigning a Shoe value produces an independent
// deep copy. Snapshot relies on this.
type Shoe struct {
	counts  [NumRanks]int
	seen    int
	running int
	decks   int
}

// NewShoe creates a full shoe of the given number of decks.
func NewShoe(decks int) (*Shoe, error) {
	s := &Shoe{}
	if err := s.Reset(decks); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset restores the shoe to decks full decks and zeroes the counts.
// The shoe is unchanged when decks is out of range.
func (s *Shoe) Reset(decks int) error {
	if decks < MinDecks || decks > MaxDecks {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidDeckCount, decks, MinDecks, MaxDecks)
	}
	for i := range s.counts {
		s.counts[i] = cardsPerRankPerDeck * decks
	}
	s.seen = 0
	s.running = 0
	s.decks = decks
	return nil
}

// Consume removes one card of the given rank. It returns false and leaves the
// shoe untouched when no card of that rank remains.
func (s *Shoe) Consume(r Rank) bool {
	if !r.Valid() || s.counts[r.index()] <= 0 {
		return false
	}
	s.counts[r.index()]--
	s.seen++
	s.running += r.HiLo()
	return true
}

// Return puts one card of the given rank back. It is the exact inverse of
// Consume; seen never drops below zero.
func (s *Shoe) Return(r Rank) bool {
	if !r.Valid() {
		return false
	}
	s.counts[r.index()]++
	s.seen = max(0, s.seen-1)
	s.running -= r.HiLo()
	return true
}

// Draw removes a random remaining card, each physical card being equally
// likely. It is meant for snapshots; the live shoe only changes via Consume.
func (s *Shoe) Draw(rng *rand.Rand) (Rank, bool) {
	total := s.Total()
	if total == 0 {
		return NoRank, false
	}
	pick := rng.IntN(total)
	for i, n := range s.counts {
		if pick < n {
			s.counts[i]--
			return Ranks[i], true
		}
		pick -= n
	}
	return NoRank, false
}

// Snapshot returns an independent copy of the shoe.
func (s *Shoe) Snapshot() Shoe {
	return *s
}

// TrueCount normalises the running count by the estimated decks remaining,
// flooring the estimate at 0.1 decks.
func (s Shoe) TrueCount(decksRemaining float64) float64 {
	return float64(s.running) / math.Max(minDecksRemaining, decksRemaining)
}

// Remaining returns the number of cards of rank r left in the shoe.
func (s Shoe) Remaining(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return s.counts[r.index()]
}

// Counts returns the remaining count per rank, indexed like Ranks.
func (s Shoe) Counts() [NumRanks]int {
	return s.counts
}

// Total returns the number of cards left.
func (s Shoe) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Seen returns the number of cards consumed since the last reset.
func (s Shoe) Seen() int { return s.seen }

// Running returns the Hi-Lo running count.
func (s Shoe) Running() int { return s.running }

// Decks returns the number of decks the shoe was built with.
func (s Shoe) Decks() int { return s.decks }

// DecksRemaining estimates the decks left from the cards remaining.
func (s Shoe) DecksRemaining() float64 {
	return float64(s.Total()) / cardsPerDeck
}

// IsEmpty returns true if no cards remain
func (s Shoe) IsEmpty() bool {
	return s.Total() == 0
}
