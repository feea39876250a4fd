package deck

import (
	"fmt"
	"strings"
)

// Rank represents a blackjack card rank. Suits never matter to the count, so
// a card is fully described by its rank.
type Rank int

const (
	// NoRank marks an absent card, e.g. no dealer upcard yet, or a request
	// for a random draw.
	NoRank Rank = iota
	Ace
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumRanks is the number of distinct ranks tracked per deck.
const NumRanks = 13

// Ranks lists every rank in display order.
var Ranks = [NumRanks]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case NoRank:
		return "-"
	}
	if r.Valid() {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// Value returns the blackjack value of the rank with an Ace counted as 11.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	case r.Valid():
		return int(r)
	}
	return 0
}

// IsTen reports whether the rank belongs to the ten-value group.
func (r Rank) IsTen() bool {
	return r >= Ten && r <= King
}

// HiLo returns the Hi-Lo count weight of the rank.
func (r Rank) HiLo() int {
	switch {
	case r >= Two && r <= Six:
		return 1
	case r >= Seven && r <= Nine:
		return 0
	case r == Ace || r.IsTen():
		return -1
	}
	return 0
}

func (r Rank) index() int {
	return int(r) - 1
}

// ParseRank parses a single rank such as "A", "7", "10", "T" or "q".
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "1", "11":
		return Ace, nil
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	return NoRank, fmt.Errorf("invalid rank: %q", s)
}

// ParseRanks parses a comma or space separated list of ranks, e.g. "A,7" or "10 9".
func ParseRanks(s string) ([]Rank, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ranks := make([]Rank, 0, len(fields))
	for _, f := range fields {
		r, err := ParseRank(f)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, nil
}

// FormatRanks joins ranks with spaces, e.g. "A K".
func FormatRanks(ranks []Rank) string {
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
