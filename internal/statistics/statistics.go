// Package statistics summarizes a session from its settled rounds.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/shoecount/internal/ledger"
	"github.com/lox/shoecount/internal/settlement"
)

// Statistics accumulates per-round nets in chips.
type Statistics struct {
	Rounds int
	Hands  int
	SumNet float64
	// SumNet2 is the sum of squares, for variance
	SumNet2 float64
	Values  []float64

	Wagered  int
	Wins     int
	Pushes   int
	Losses   int
	Outcomes map[settlement.Outcome]int

	// Bankroll at the start of the first round and end of the last
	StartBankroll int
	EndBankroll   int

	BiggestWin  int
	BiggestLoss int
}

// FromRecords builds statistics from records, oldest first.
func FromRecords(records []ledger.Record) *Statistics {
	s := &Statistics{}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add incorporates one settled round.
func (s *Statistics) Add(r ledger.Record) {
	if s.Rounds == 0 {
		s.StartBankroll = r.BankrollBefore
	}
	s.EndBankroll = r.BankrollAfter

	net := float64(r.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += r.Wagered()

	if s.Outcomes == nil {
		s.Outcomes = make(map[settlement.Outcome]int)
	}
	for _, d := range r.Details {
		s.Hands++
		s.Outcomes[d.Outcome]++
		switch d.Outcome.Result() {
		case settlement.Win:
			s.Wins++
		case settlement.Tie:
			s.Pushes++
		default:
			s.Losses++
		}
	}

	s.BiggestWin = max(s.BiggestWin, r.Net)
	s.BiggestLoss = min(s.BiggestLoss, r.Net)
}

// Mean returns the mean net per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of round nets
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median round net
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the share of hands won.
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// ReturnOnWagered is the net as a fraction of total stake.
func (s *Statistics) ReturnOnWagered() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / float64(s.Wagered)
}

// IsLedgerBalanced checks that round nets explain the bankroll movement.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(float64(s.EndBankroll-s.StartBankroll)-s.SumNet) <= 1e-6
}

// Validate checks the accumulated data is self-consistent.
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins+s.Pushes+s.Losses != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", s.Wins+s.Pushes+s.Losses, s.Hands)
	}
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: bankroll moved %d, rounds net %.0f",
			s.EndBankroll-s.StartBankroll, s.SumNet)
	}
	return nil
}
