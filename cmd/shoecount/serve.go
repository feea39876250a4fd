package main

import (
	"context"
	"os"
	"time"

	"github.com/lox/shoecount/cmd/shoecount/shared"
	"github.com/lox/shoecount/internal/randutil"
	"github.com/lox/shoecount/internal/server"
	"github.com/lox/shoecount/internal/session"
)

// ServeCmd exposes a session to websocket clients.
type ServeCmd struct {
	Addr string `help:"Server address (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level)
	rng := newRNG(cfg, logger)
	engine, err := newEngine(cfg, rng, logger)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.Server.Addr, logger)
	sess := session.New(session.Options{
		Engine:   engine,
		SideBets: cfg.SideBetKinds(),
		Budget:   cfg.Simulation.Iterations,
		Delay:    cfg.Debounce(),
		RNG:      randutil.Fork(rng),
		Logger:   logger,
		OnAdvice: srv.PublishAdvice,
		OnClear:  srv.ClearAdvice,
	})
	defer sess.Close()
	srv.SetSession(sess)

	logger.Info("Starting shoecount server",
		"address", cfg.Server.Addr,
		"decks", cfg.Table.Decks,
		"bankroll", cfg.Session.Bankroll,
		"iterations", cfg.Simulation.Iterations)

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
