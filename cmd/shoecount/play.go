package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/shoecount/cmd/shoecount/shared"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/session"
	"github.com/lox/shoecount/internal/tui"
)

// PlayCmd runs the interactive terminal UI.
type PlayCmd struct {
	Decks    int `short:"d" help:"Decks in the shoe (overrides config)"`
	Bankroll int `short:"b" help:"Starting bankroll (overrides config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.Decks > 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.Bankroll > 0 {
		cfg.Session.Bankroll = c.Bankroll
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := shared.SetupLogger(logFile, cfg.Log.Level)
	logger.Info("Starting shoecount",
		"version", version,
		"config", g.Config,
		"decks", cfg.Table.Decks,
		"bankroll", cfg.Session.Bankroll)

	rng := newRNG(cfg, logger)
	engine, err := newEngine(cfg, rng, logger)
	if err != nil {
		return err
	}

	model := tui.NewTUIModel(logger)
	sess := session.New(session.Options{
		Engine:   engine,
		SideBets: cfg.SideBetKinds(),
		Budget:   cfg.Simulation.Iterations,
		Delay:    cfg.Debounce(),
		RNG:      randutil.Fork(rng),
		Logger:   logger,
		OnAdvice: model.OnAdvice,
	})
	defer sess.Close()
	model.Attach(sess)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
