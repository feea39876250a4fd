// Package sidebet scores the common blackjack side bets against the
// remaining shoe composition. The models are rough linear heuristics over the
// true count and composition ratios, not exact EVs.
package sidebet

import (
	"fmt"
	"strings"

	"github.com/lox/shoecount/internal/deck"
)

// MinCards is the fewest remaining cards an analysis will work with.
const MinCards = 50

// Kind identifies a side bet.
type Kind string

const (
	Hot3               Kind = "hot3"
	TwentyOnePlusThree Kind = "21+3"
	PerfectPairs       Kind = "perfect-pairs"
	BustIt             Kind = "bust-it"
)

// Kinds lists every supported side bet in display order.
var Kinds = []Kind{Hot3, TwentyOnePlusThree, PerfectPairs, BustIt}

// Name returns the table name of the bet
func (k Kind) Name() string {
	switch k {
	case Hot3:
		return "HOT 3"
	case TwentyOnePlusThree:
		return "21+3"
	case PerfectPairs:
		return "Perfect Pairs"
	case BustIt:
		return "Bust It"
	}
	return string(k)
}

// ParseKind accepts the kind identifier or its table name.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if norm == string(k) || norm == strings.ToLower(k.Name()) {
			return k, nil
		}
	}
	switch norm {
	case "hot 3":
		return Hot3, nil
	case "21plus3", "twenty_one_plus_three":
		return TwentyOnePlusThree, nil
	case "perfect_pairs", "pp":
		return PerfectPairs, nil
	case "bust_it", "bustit":
		return BustIt, nil
	}
	return "", fmt.Errorf("unknown side bet: %q", s)
}

// Analysis is the verdict on one side bet. EV is in percent of the stake.
// Ratio is the composition ratio the bet keys on.
type Analysis struct {
	Kind      Kind
	Recommend bool
	TrueCount float64
	EV        float64
	Ratio     float64
	Reason    string
}

// composition holds the per-rank counts in deck.Ranks order.
type composition struct {
	counts [deck.NumRanks]int
	total  int
}

func newComposition(counts [deck.NumRanks]int) composition {
	c := composition{counts: counts}
	for _, n := range counts {
		c.total += n
	}
	return c
}

func (c composition) sum(ranks ...deck.Rank) int {
	n := 0
	for i, r := range deck.Ranks {
		for _, want := range ranks {
			if r == want {
				n += c.counts[i]
			}
		}
	}
	return n
}

func (c composition) ratio(n int) float64 {
	if c.total == 0 {
		return 0
	}
	return float64(n) / float64(c.total)
}

// insufficientEV is the flat EV reported when too few cards remain
var insufficientEV = map[Kind]float64{
	Hot3:               -10,
	TwentyOnePlusThree: -8,
	PerfectPairs:       -7,
	BustIt:             -10,
}

// Analyze scores kind for the remaining counts at trueCount.
func Analyze(kind Kind, counts [deck.NumRanks]int, trueCount float64) Analysis {
	c := newComposition(counts)
	if c.total < MinCards {
		return Analysis{Kind: kind, EV: insufficientEV[kind], Reason: "Insufficient cards"}
	}

	switch kind {
	case Hot3:
		return hot3(c, trueCount)
	case TwentyOnePlusThree:
		return twentyOnePlusThree(c, trueCount)
	case PerfectPairs:
		return perfectPairs(c, trueCount)
	case BustIt:
		return bustIt(c, trueCount)
	}
	return Analysis{Kind: kind, Reason: "Unknown side bet"}
}

// AnalyzeAll scores each of kinds in order.
func AnalyzeAll(kinds []Kind, counts [deck.NumRanks]int, trueCount float64) []Analysis {
	out := make([]Analysis, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Analyze(k, counts, trueCount))
	}
	return out
}

// hot3 pays on the first three cards totalling 19-21, so it wants nines,
// tens and aces.
func hot3(c composition, tc float64) Analysis {
	high := c.ratio(c.sum(deck.Nine, deck.Ten, deck.Jack, deck.Queen, deck.King, deck.Ace))
	a := Analysis{
		Kind:      Hot3,
		TrueCount: tc,
		EV:        -9.5 + tc*1.8,
		Ratio:     high,
		Recommend: tc >= 4 && high > 0.35,
	}
	if a.Recommend {
		a.Reason = fmt.Sprintf("High count favorable (TC: %.1f, %.1f%% high cards)", tc, high*100)
	} else {
		a.Reason = fmt.Sprintf("Not favorable (TC: %.1f, need TC >= +4)", tc)
	}
	return a
}

// twentyOnePlusThree treats ranks with three or more cards left as suited
// potential.
func twentyOnePlusThree(c composition, tc float64) Analysis {
	suited := 0
	for _, n := range c.counts {
		if n >= 3 {
			suited += n
		}
	}
	ratio := c.ratio(suited)
	a := Analysis{
		Kind:      TwentyOnePlusThree,
		TrueCount: tc,
		EV:        -6.5 + tc*1.2 + ratio*8,
		Ratio:     ratio,
		Recommend: tc >= 3 && ratio > 0.28,
	}
	if a.Recommend {
		a.Reason = fmt.Sprintf("Favorable for flush/straight combos (TC: %.1f)", tc)
	} else {
		a.Reason = fmt.Sprintf("Not favorable (TC: %.1f, need TC >= +3)", tc)
	}
	return a
}

// perfectPairs uses the share of two-card combinations that are pairs.
func perfectPairs(c composition, tc float64) Analysis {
	pairs := 0.0
	for _, n := range c.counts {
		if n >= 2 {
			pairs += float64(n*(n-1)) / 2
		}
	}
	combos := float64(c.total*(c.total-1)) / 2
	ratio := pairs / combos
	a := Analysis{
		Kind:      PerfectPairs,
		TrueCount: tc,
		EV:        -7.5 + ratio*35 + tc*0.8,
		Ratio:     ratio,
		Recommend: ratio > 0.08 && tc >= 1,
	}
	if a.Recommend {
		a.Reason = fmt.Sprintf("High pair concentration (%.2f%% pair potential)", ratio*100)
	} else {
		a.Reason = fmt.Sprintf("Low pair potential (%.2f%%, need > 8%%)", ratio*100)
	}
	return a
}

// bustIt pays when the dealer busts, which small cards make more likely, so
// it improves as the count falls.
func bustIt(c composition, tc float64) Analysis {
	low := c.ratio(c.sum(deck.Two, deck.Three, deck.Four, deck.Five, deck.Six))
	mid := c.ratio(c.sum(deck.Seven, deck.Eight, deck.Nine))
	a := Analysis{
		Kind:      BustIt,
		TrueCount: tc,
		EV:        -10.5 - tc*2.5 + low*25 + mid*10,
		Ratio:     low,
		Recommend: tc <= -2 && low > 0.32,
	}
	if a.Recommend {
		a.Reason = fmt.Sprintf("Favorable for dealer bust (TC: %.1f, %.1f%% low cards)", tc, low*100)
	} else {
		a.Reason = fmt.Sprintf("Not favorable (TC: %.1f, need TC <= -2 and high low card ratio)", tc)
	}
	return a
}
