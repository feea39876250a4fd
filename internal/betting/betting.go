// Package betting sizes wagers from bankroll and true count.
package betting

import (
	"fmt"
	"math"
)

// Default table limits.
const (
	DefaultMinBet = 50
	DefaultStep   = 50
)

// Band maps true counts strictly below Below to a bankroll fraction.
type Band struct {
	Below    float64
	Fraction float64
}

// DefaultBands is the fixed per-count bucket table. Counts at or above the
// last band scale with OverflowPerCount up to Cap.
var DefaultBands = []Band{
	{Below: 1, Fraction: 0.005},
	{Below: 2, Fraction: 0.01},
	{Below: 3, Fraction: 0.02},
	{Below: 4, Fraction: 0.04},
	{Below: 5, Fraction: 0.06},
	{Below: 6, Fraction: 0.08},
}

// Advisor suggests bets. It is a plain value and safe to copy.
type Advisor struct {
	MinBet           int
	Step             int
	Bands            []Band
	OverflowPerCount float64
	Cap              float64
}

// NewAdvisor returns an advisor with the default band table.
func NewAdvisor(minBet, step int) Advisor {
	return Advisor{
		MinBet:           minBet,
		Step:             step,
		Bands:            DefaultBands,
		OverflowPerCount: 0.02,
		Cap:              0.10,
	}
}

// Fraction returns the bankroll fraction for a positive true count.
func (a Advisor) Fraction(trueCount float64) float64 {
	for _, b := range a.Bands {
		if trueCount < b.Below {
			return b.Fraction
		}
	}
	return math.Min(a.Cap, a.OverflowPerCount*trueCount)
}

// SuggestBet returns the recommended wager. Non-positive counts and bankrolls
// at or below the minimum get the minimum bet. Otherwise the bankroll fraction
// is rounded to the nearest step, floored at the minimum, and capped so that
// one minimum bet stays in reserve.
func (a Advisor) SuggestBet(bankroll int, trueCount float64) int {
	if trueCount <= 0 || bankroll <= a.MinBet {
		return a.MinBet
	}

	raw := float64(bankroll) * a.Fraction(trueCount)
	bet := int(math.Round(raw/float64(a.Step))) * a.Step
	if bet < a.MinBet {
		bet = a.MinBet
	}

	if bet > bankroll-a.MinBet {
		bet = max(a.MinBet, ((bankroll-a.MinBet)/a.Step)*a.Step)
	}
	return bet
}

// Normalize rounds a requested wager to the nearest step, never below the
// minimum. Zero or negative requests become the minimum bet.
func (a Advisor) Normalize(bet int) int {
	if bet <= 0 {
		return a.MinBet
	}
	n := int(math.Round(float64(bet)/float64(a.Step))) * a.Step
	return max(a.MinBet, n)
}

// Describe renders a suggestion label such as "150 (TC: 2.40 - 3.0x min)".
func (a Advisor) Describe(bet int, trueCount float64) string {
	if trueCount <= 0 {
		return fmt.Sprintf("%d (TC: %.2f - Min bet)", bet, trueCount)
	}
	return fmt.Sprintf("%d (TC: %.2f - %.1fx min)", bet, trueCount, float64(bet)/float64(a.MinBet))
}
