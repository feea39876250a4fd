package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/ledger"
	"github.com/lox/shoecount/internal/sidebet"
	"github.com/lox/shoecount/internal/statistics"
)

// DefaultHistory is how many rounds "history" lists without an argument.
const DefaultHistory = 10

// Result is the outcome of a command. Mutated reports that engine state
// changed and any pending recommendation is stale.
type Result struct {
	Verb    Verb
	Message string
	Lines   []string
	Record  *ledger.Record
	Mutated bool
	Quit    bool
}

// Executor applies commands to an engine. It is not safe for concurrent
// use; callers serialize access to the engine.
type Executor struct {
	engine *game.Engine
	kinds  []sidebet.Kind
	logger *log.Logger
}

// NewExecutor creates an executor. kinds selects the side bets "sidebets"
// reports on; nil means all of them.
func NewExecutor(engine *game.Engine, kinds []sidebet.Kind, logger *log.Logger) *Executor {
	if kinds == nil {
		kinds = sidebet.Kinds
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{
		engine: engine,
		kinds:  kinds,
		logger: logger.WithPrefix("command"),
	}
}

// Run parses and executes one line.
func (x *Executor) Run(line string) (Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Result{}, err
	}
	return x.Execute(cmd)
}

// Execute applies cmd. A rejected command leaves the engine unchanged.
func (x *Executor) Execute(cmd Command) (Result, error) {
	res, err := x.execute(cmd)
	res.Verb = cmd.Verb
	if err != nil {
		x.logger.Debug("Command rejected", "verb", cmd.Verb, "error", err)
		return Result{Verb: cmd.Verb}, err
	}
	x.logger.Debug("Command applied", "verb", cmd.Verb, "message", res.Message)
	return res, nil
}

func (x *Executor) execute(cmd Command) (Result, error) {
	e := x.engine

	switch cmd.Verb {
	case Reset:
		decks := cmd.N
		if decks == 0 {
			decks = e.Snapshot().Decks
		}
		if err := e.ResetShoe(decks); err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Shoe reset to %d decks", decks)), nil

	case Start:
		if err := e.StartRound(cmd.N); err != nil {
			return Result{}, err
		}
		s := e.Snapshot()
		return mutated(fmt.Sprintf("Round started. Bet %d, bankroll %d", s.Round.Hands[0].Wager, s.Bankroll)), nil

	case Cancel:
		if err := e.CancelRound(); err != nil {
			return Result{}, err
		}
		return mutated("Round canceled"), nil

	case Hit:
		i := x.activeHand()
		if _, err := e.Hit(cmd.Rank); err != nil {
			return Result{}, err
		}
		return mutated(x.handLine(i)), nil

	case Double:
		i := x.activeHand()
		if _, err := e.Double(cmd.Rank); err != nil {
			return Result{}, err
		}
		return mutated(x.handLine(i)), nil

	case Stand:
		i := x.activeHand()
		if err := e.Stand(); err != nil {
			return Result{}, err
		}
		return mutated(x.handLine(i)), nil

	case Split:
		if err := e.Split(); err != nil {
			return Result{}, err
		}
		return mutated("Split into two hands"), nil

	case Select:
		if err := e.SelectHand(cmd.Hand); err != nil {
			return Result{}, err
		}
		return mutated(x.handLine(cmd.Hand)), nil

	case Dealer:
		r, err := e.AddDealerCard(cmd.Rank)
		if err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Dealer: %s", r)), nil

	case Player:
		if _, err := e.AddPlayerCard(cmd.Hand, cmd.Rank); err != nil {
			return Result{}, err
		}
		return mutated(x.handLine(cmd.Hand)), nil

	case Table:
		r, err := e.AddTableCard(cmd.Rank)
		if err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Table: %s", r)), nil

	case Burn:
		r, err := e.AddBurnCard(cmd.Rank)
		if err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Burned: %s", r)), nil

	case BurnLast:
		r, err := e.BurnLastTable()
		if err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Moved %s from table to burn pile", r)), nil

	case ClearBurns:
		n, err := e.ClearBurns()
		if err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Returned %d burned cards to the shoe", n)), nil

	case Remove:
		mv, err := e.RemoveCard(cmd.Pile, cmd.Hand, cmd.Pos)
		if err != nil {
			return Result{}, err
		}
		return mutated(describeMove("Removed", mv)), nil

	case Undo:
		mv, err := e.Undo()
		if err != nil {
			return Result{}, err
		}
		return mutated(describeMove("Undid", mv)), nil

	case Resolve:
		rec, err := e.Resolve()
		if err != nil {
			return Result{}, err
		}
		res := mutated(fmt.Sprintf("Round resolved: net %+d, bankroll %d", rec.Net, rec.BankrollAfter))
		res.Record = &rec
		res.Lines = recordLines(rec)
		return res, nil

	case Decks:
		if err := e.SetDecksRemaining(cmd.Decks); err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Decks remaining %.2f, true count %+.2f", e.DecksRemaining(), e.TrueCount())), nil

	case Bankroll:
		if err := e.SetBankroll(cmd.N); err != nil {
			return Result{}, err
		}
		return mutated(fmt.Sprintf("Bankroll set to %d", cmd.N)), nil

	case Charlie:
		e.SetSixCardCharlie(cmd.On)
		state := "off"
		if cmd.On {
			state = "on"
		}
		return mutated("Six-card charlie " + state), nil

	case Stats:
		return Result{Message: "Session statistics", Lines: statsLines(e.Ledger())}, nil

	case History:
		n := cmd.N
		if n == 0 {
			n = DefaultHistory
		}
		recent := e.Ledger().Recent(n)
		res := Result{Message: fmt.Sprintf("Last %d of %d rounds", len(recent), e.Ledger().Len())}
		for _, rec := range recent {
			res.Lines = append(res.Lines, historyLine(rec))
		}
		return res, nil

	case SideBets:
		s := e.Snapshot()
		res := Result{Message: fmt.Sprintf("Side bets at TC %+.2f", s.TrueCount)}
		for _, a := range sidebet.AnalyzeAll(x.kinds, s.Counts, s.TrueCount) {
			res.Lines = append(res.Lines, sideBetLine(a))
		}
		return res, nil

	case Bet:
		advisor := e.BetAdvisor()
		return Result{Message: "Suggested bet: " + advisor.Describe(e.SuggestedBet(), e.TrueCount())}, nil

	case Help:
		return Result{Message: "Commands", Lines: Usage}, nil

	case Quit:
		return Result{Message: "Bye", Quit: true}, nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnknown, cmd.Verb)
}

func mutated(msg string) Result {
	return Result{Message: msg, Mutated: true}
}

func (x *Executor) activeHand() int {
	if r := x.engine.Snapshot().Round; r != nil {
		return r.Active
	}
	return 0
}

func (x *Executor) handLine(i int) string {
	r := x.engine.Snapshot().Round
	if r == nil || i < 0 || i >= len(r.Hands) {
		return ""
	}
	return HandSummary(i, r.Hands[i])
}

// HandSummary renders a hand such as "Hand 1: A 6 (soft 17) bet 100".
func HandSummary(i int, h game.Hand) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hand %d: %s (%s) bet %d", i+1, deck.FormatRanks(h.Cards), Total(h.Cards), h.Wager)
	switch {
	case h.Doubled:
		sb.WriteString(" doubled")
	case h.Stood:
		sb.WriteString(" stood")
	case h.Finished:
		sb.WriteString(" done")
	}
	return sb.String()
}

// Total describes a hand total: "soft 17", "bust 24", "blackjack".
func Total(cards []deck.Rank) string {
	if len(cards) == 0 {
		return "empty"
	}
	v := evaluator.Evaluate(cards)
	switch {
	case evaluator.IsBlackjack(cards):
		return "blackjack"
	case v.Bust():
		return fmt.Sprintf("bust %d", v.Total)
	case v.Soft():
		return fmt.Sprintf("soft %d", v.Total)
	}
	return fmt.Sprint(v.Total)
}

func describeMove(verb string, mv game.Move) string {
	if mv.Pile == game.PlayerPile {
		return fmt.Sprintf("%s %s from hand %d", verb, mv.Rank, mv.Hand+1)
	}
	return fmt.Sprintf("%s %s from %s", verb, mv.Rank, mv.Pile)
}

func recordLines(rec ledger.Record) []string {
	lines := []string{fmt.Sprintf("Dealer: %s (%s)", deck.FormatRanks(rec.Dealer), Total(rec.Dealer))}
	for _, d := range rec.Details {
		h := rec.Hands[d.Hand]
		lines = append(lines, fmt.Sprintf("Hand %d: %s (%s) %s %+d",
			d.Hand+1, deck.FormatRanks(h.Cards), Total(h.Cards), d.Outcome.Label(), d.Net))
	}
	return lines
}

func historyLine(rec ledger.Record) string {
	hands := make([]string, len(rec.Hands))
	for i, h := range rec.Hands {
		hands[i] = deck.FormatRanks(h.Cards)
	}
	id := rec.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s  %s vs %s  %+d  (TC %+.1f)",
		id, strings.Join(hands, " / "), deck.FormatRanks(rec.Dealer), rec.Net, rec.TrueCount)
}

func statsLines(l *ledger.Ledger) []string {
	records := l.Records()
	if len(records) == 0 {
		return []string{"No rounds played"}
	}
	s := statistics.FromRecords(records)
	lo, hi := s.ConfidenceInterval95()
	return []string{
		fmt.Sprintf("Rounds: %d  Hands: %d", s.Rounds, s.Hands),
		fmt.Sprintf("Net: %+.0f  Wagered: %d  Return: %.2f%%", s.SumNet, s.Wagered, s.ReturnOnWagered()*100),
		fmt.Sprintf("Mean/round: %+.2f (95%% CI %+.2f to %+.2f)", s.Mean(), lo, hi),
		fmt.Sprintf("W/P/L: %d/%d/%d  Win rate: %.1f%%", s.Wins, s.Pushes, s.Losses, s.WinRate()*100),
		fmt.Sprintf("Biggest win: %+d  Biggest loss: %+d", s.BiggestWin, s.BiggestLoss),
		fmt.Sprintf("Bankroll: %d -> %d", s.StartBankroll, s.EndBankroll),
	}
}

func sideBetLine(a sidebet.Analysis) string {
	verdict := "SKIP"
	if a.Recommend {
		verdict = "BET"
	}
	return fmt.Sprintf("%-14s %-4s EV %+.1f%%  %s", a.Kind.Name(), verdict, a.EV, a.Reason)
}
