package main

import (
	"errors"
	"fmt"
)

// BetCmd prints the suggested wager for a count.
type BetCmd struct {
	Bankroll  int     `short:"b" required:"" help:"Current bankroll"`
	Running   int     `short:"r" help:"Hi-Lo running count"`
	DecksLeft float64 `short:"d" required:"" help:"Estimated decks left in the shoe"`
}

func (c *BetCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.DecksLeft <= 0 {
		return errors.New("decks left must be positive")
	}
	if c.Bankroll < 0 {
		return errors.New("bankroll cannot be negative")
	}

	a := cfg.BetAdvisor()
	tc := float64(c.Running) / c.DecksLeft
	fmt.Println(a.Describe(a.SuggestBet(c.Bankroll, tc), tc))
	return nil
}
