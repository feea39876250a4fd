package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/shoecount/cmd/shoecount/shared"
	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/command"
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/evaluator"
	"github.com/lox/shoecount/internal/simulator"
)

// SimulateCmd evaluates one player decision against a fresh or partly
// dealt shoe.
type SimulateCmd struct {
	Player     string `arg:"" help:"Player cards, e.g. '10,6'"`
	Dealer     string `arg:"" help:"Dealer up card"`
	Decks      int    `short:"d" default:"8" help:"Decks in the shoe"`
	Seen       string `short:"s" help:"Other cards already out of the shoe, e.g. '10 10 5 A'"`
	Iterations int    `short:"i" default:"20000" help:"Trials per action"`
	Bet        int    `default:"100" help:"Wager on the hand"`
	Charlie    bool   `help:"Six-card charlie wins"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	reasonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.Iterations < simulator.MinIterations {
		return fmt.Errorf("iterations must be at least %d", simulator.MinIterations)
	}
	if c.Bet <= 0 {
		return errors.New("bet must be positive")
	}

	player, err := deck.ParseRanks(c.Player)
	if err != nil {
		return fmt.Errorf("player cards: %w", err)
	}
	if len(player) == 0 {
		return errors.New("player cards are required")
	}
	if evaluator.Evaluate(player).Bust() {
		return fmt.Errorf("player hand %s is bust", deck.FormatRanks(player))
	}
	up, err := deck.ParseRank(c.Dealer)
	if err != nil {
		return fmt.Errorf("dealer card: %w", err)
	}
	seen, err := deck.ParseRanks(c.Seen)
	if err != nil {
		return fmt.Errorf("seen cards: %w", err)
	}

	shoe, err := deck.NewShoe(c.Decks)
	if err != nil {
		return err
	}
	out := append(append(append([]deck.Rank{}, player...), up), seen...)
	for _, r := range out {
		if !shoe.Consume(r) {
			return fmt.Errorf("no %s left in a %d deck shoe", r, c.Decks)
		}
	}

	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level)
	rng := newRNG(cfg, logger)

	tc := shoe.TrueCount(shoe.DecksRemaining())
	sc := simulator.Scenario{
		Shoe:           shoe.Snapshot(),
		Player:         player,
		DealerUp:       up,
		Bet:            c.Bet,
		SixCardCharlie: c.Charlie,
	}
	candidates := advisor.Candidates(advisor.Situation{
		Cards:     player,
		DealerUp:  up,
		SplitHand: true,
		Bankroll:  c.Bet * 4,
		Bet:       c.Bet,
		TrueCount: tc,
	})

	start := time.Now()
	rec := simulator.Rank(sc, candidates, c.Iterations, rng)
	logger.Debug("Simulation finished", "duration", time.Since(start), "actions", len(rec.Alternatives))

	fmt.Println(headerStyle.Render(fmt.Sprintf("Player %s (%s) vs dealer %s",
		deck.FormatRanks(player), command.Total(player), up)))
	fmt.Printf("Cards left: %d  Running: %+d  True count: %+.2f\n\n", shoe.Total(), shoe.Running(), tc)
	fmt.Print(renderResults(rec, c.Bet))
	return nil
}

func renderResults(rec simulator.Recommendation, bet int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %7s %7s %7s %9s", "Action", "Win", "Push", "Loss", "EV/unit")))
	b.WriteString("\n")
	for _, res := range rec.Alternatives {
		line := fmt.Sprintf("%-8s %6.1f%% %6.1f%% %6.1f%% %+9.3f",
			strings.ToUpper(res.Action.String()),
			res.WinRate*100, res.PushRate*100, res.LossRate*100,
			res.MeanEV/float64(bet))
		if res.Action == rec.Action {
			b.WriteString(bestStyle.Render(line + "  <"))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(reasonStyle.Render(fmt.Sprintf("Best: %s (%s)", strings.ToUpper(rec.Action.String()), rec.Reason)))
	b.WriteString("\n")
	return b.String()
}
