// Package config loads session configuration from HCL.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/shoecount/internal/betting"
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/sidebet"
	"github.com/lox/shoecount/internal/simulator"
)

// Config represents the complete configuration file.
type Config struct {
	Table      TableSettings      `hcl:"table,block"`
	Session    SessionSettings    `hcl:"session,block"`
	Simulation SimulationSettings `hcl:"simulation,block"`
	Betting    BettingSettings    `hcl:"betting,block"`
	SideBets   SideBetSettings    `hcl:"side_bets,block"`
	Log        LogSettings        `hcl:"log,block"`
	Server     ServerSettings     `hcl:"server,block"`
}

// TableSettings describes the table rules.
type TableSettings struct {
	Decks          int  `hcl:"decks,optional"`
	MinBet         int  `hcl:"min_bet,optional"`
	BetStep        int  `hcl:"bet_step,optional"`
	SixCardCharlie bool `hcl:"six_card_charlie,optional"`
}

// SessionSettings holds the starting bankroll and deck estimate.
type SessionSettings struct {
	Bankroll       int     `hcl:"bankroll,optional"`
	DecksRemaining float64 `hcl:"decks_remaining,optional"`
}

// SimulationSettings controls the recommendation budget.
type SimulationSettings struct {
	Iterations int `hcl:"iterations,optional"`
	DebounceMS int `hcl:"debounce_ms,optional"`
	// Seed fixes the RNG when non-zero.
	Seed uint64 `hcl:"seed,optional"`
}

// BandConfig is one bet sizing bucket.
type BandConfig struct {
	Below    float64 `hcl:"below"`
	Fraction float64 `hcl:"fraction"`
}

// BettingSettings overrides the bet band table.
type BettingSettings struct {
	Bands            []BandConfig `hcl:"band,block"`
	OverflowPerCount float64      `hcl:"overflow_per_count,optional"`
	Cap              float64      `hcl:"cap,optional"`
}

// SideBetSettings selects which side bets are analysed.
type SideBetSettings struct {
	Hot3               bool `hcl:"hot3,optional"`
	TwentyOnePlusThree bool `hcl:"twenty_one_plus_three,optional"`
	PerfectPairs       bool `hcl:"perfect_pairs,optional"`
	BustIt             bool `hcl:"bust_it,optional"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// ServerSettings configures the websocket feed.
type ServerSettings struct {
	Addr string `hcl:"addr,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	bands := make([]BandConfig, len(betting.DefaultBands))
	for i, b := range betting.DefaultBands {
		bands[i] = BandConfig{Below: b.Below, Fraction: b.Fraction}
	}
	return &Config{
		Table: TableSettings{
			Decks:   8,
			MinBet:  betting.DefaultMinBet,
			BetStep: betting.DefaultStep,
		},
		Session: SessionSettings{
			Bankroll: 1000,
		},
		Simulation: SimulationSettings{
			Iterations: 1200,
			DebounceMS: 120,
		},
		Betting: BettingSettings{
			Bands:            bands,
			OverflowPerCount: 0.02,
			Cap:              0.10,
		},
		SideBets: SideBetSettings{
			Hot3:               true,
			TwentyOnePlusThree: true,
			PerfectPairs:       true,
			BustIt:             true,
		},
		Log: LogSettings{
			Level: "info",
			File:  "shoecount.log",
		},
		Server: ServerSettings{
			Addr: "localhost:8080",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults. Zero values are filled from the defaults before validation.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw struct {
		Table      *TableSettings      `hcl:"table,block"`
		Session    *SessionSettings    `hcl:"session,block"`
		Simulation *SimulationSettings `hcl:"simulation,block"`
		Betting    *BettingSettings    `hcl:"betting,block"`
		SideBets   *SideBetSettings    `hcl:"side_bets,block"`
		Log        *LogSettings        `hcl:"log,block"`
		Server     *ServerSettings     `hcl:"server,block"`
	}
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	if raw.Table != nil {
		config.Table = *raw.Table
	}
	if raw.Session != nil {
		config.Session = *raw.Session
	}
	if raw.Simulation != nil {
		config.Simulation = *raw.Simulation
	}
	if raw.Betting != nil {
		config.Betting = *raw.Betting
	}
	// An omitted side_bets block keeps every analysis enabled; a present
	// block lists exactly what is wanted.
	if raw.SideBets != nil {
		config.SideBets = *raw.SideBets
	}
	if raw.Log != nil {
		config.Log = *raw.Log
	}
	if raw.Server != nil {
		config.Server = *raw.Server
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Table.Decks == 0 {
		c.Table.Decks = defaults.Table.Decks
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = defaults.Table.MinBet
	}
	if c.Table.BetStep == 0 {
		c.Table.BetStep = defaults.Table.BetStep
	}
	if c.Session.Bankroll == 0 {
		c.Session.Bankroll = defaults.Session.Bankroll
	}
	if c.Simulation.Iterations == 0 {
		c.Simulation.Iterations = defaults.Simulation.Iterations
	}
	if c.Simulation.DebounceMS == 0 {
		c.Simulation.DebounceMS = defaults.Simulation.DebounceMS
	}
	if len(c.Betting.Bands) == 0 {
		c.Betting.Bands = defaults.Betting.Bands
	}
	if c.Betting.OverflowPerCount == 0 {
		c.Betting.OverflowPerCount = defaults.Betting.OverflowPerCount
	}
	if c.Betting.Cap == 0 {
		c.Betting.Cap = defaults.Betting.Cap
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// MaxIterations bounds the per-decision simulation budget.
const MaxIterations = 100000

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Table.Decks < 1 || c.Table.Decks > deck.MaxDecks {
		return fmt.Errorf("decks must be between 1 and %d, got %d", deck.MaxDecks, c.Table.Decks)
	}
	if c.Table.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive")
	}
	if c.Table.BetStep <= 0 || c.Table.BetStep%2 != 0 {
		return fmt.Errorf("bet step must be positive and even, got %d", c.Table.BetStep)
	}
	if c.Session.Bankroll < 0 {
		return fmt.Errorf("bankroll cannot be negative")
	}
	if c.Session.DecksRemaining < 0 || c.Session.DecksRemaining > deck.MaxDecks {
		return fmt.Errorf("decks remaining must be between 0 and %d, got %g", deck.MaxDecks, c.Session.DecksRemaining)
	}
	if c.Simulation.Iterations < simulator.MinIterations || c.Simulation.Iterations > MaxIterations {
		return fmt.Errorf("iterations must be between %d and %d, got %d",
			simulator.MinIterations, MaxIterations, c.Simulation.Iterations)
	}
	if c.Simulation.DebounceMS < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}

	for i, b := range c.Betting.Bands {
		if b.Fraction <= 0 || b.Fraction > 1 {
			return fmt.Errorf("band %d fraction must be in (0, 1], got %g", i, b.Fraction)
		}
		if i > 0 && b.Below <= c.Betting.Bands[i-1].Below {
			return fmt.Errorf("bands must be in ascending order of below")
		}
	}
	if c.Betting.OverflowPerCount < 0 {
		return fmt.Errorf("overflow per count cannot be negative")
	}
	if c.Betting.Cap <= 0 || c.Betting.Cap > 1 {
		return fmt.Errorf("cap must be in (0, 1], got %g", c.Betting.Cap)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// BetAdvisor builds the bet sizing advisor from the table and betting blocks.
func (c *Config) BetAdvisor() betting.Advisor {
	a := betting.NewAdvisor(c.Table.MinBet, c.Table.BetStep)
	bands := make([]betting.Band, len(c.Betting.Bands))
	for i, b := range c.Betting.Bands {
		bands[i] = betting.Band{Below: b.Below, Fraction: b.Fraction}
	}
	a.Bands = bands
	a.OverflowPerCount = c.Betting.OverflowPerCount
	a.Cap = c.Betting.Cap
	return a
}

// EngineSettings converts the configuration into engine settings.
func (c *Config) EngineSettings() game.Settings {
	return game.Settings{
		Decks:          c.Table.Decks,
		DecksRemaining: c.Session.DecksRemaining,
		Bankroll:       c.Session.Bankroll,
		SixCardCharlie: c.Table.SixCardCharlie,
		Betting:        c.BetAdvisor(),
	}
}

// Debounce returns the advisor delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Simulation.DebounceMS) * time.Millisecond
}

// SideBetKinds returns the enabled side bets in display order.
func (c *Config) SideBetKinds() []sidebet.Kind {
	var kinds []sidebet.Kind
	if c.SideBets.Hot3 {
		kinds = append(kinds, sidebet.Hot3)
	}
	if c.SideBets.TwentyOnePlusThree {
		kinds = append(kinds, sidebet.TwentyOnePlusThree)
	}
	if c.SideBets.PerfectPairs {
		kinds = append(kinds, sidebet.PerfectPairs)
	}
	if c.SideBets.BustIt {
		kinds = append(kinds, sidebet.BustIt)
	}
	return kinds
}
