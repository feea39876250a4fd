package main

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/shoecount/internal/config"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/randutil"
)

// LoadConfig reads the configuration file and applies flag overrides.
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	if g.Seed != nil {
		cfg.Simulation.Seed = uint64(*g.Seed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRNG seeds from the configuration, falling back to the clock.
func newRNG(cfg *config.Config, logger *log.Logger) *rand.Rand {
	if cfg.Simulation.Seed != 0 {
		seed := int64(cfg.Simulation.Seed)
		logger.Info("Using deterministic seed", "seed", seed)
		return randutil.New(seed)
	}
	seed := time.Now().UnixNano()
	logger.Debug("Using random seed", "seed", seed)
	return randutil.New(seed)
}

func newEngine(cfg *config.Config, rng *rand.Rand, logger *log.Logger) (*game.Engine, error) {
	engine, err := game.NewEngine(cfg.EngineSettings(), randutil.Fork(rng), logger)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}
