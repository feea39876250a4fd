package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/shoecount/internal/simulator"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoecount.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
log {
  level = "warn"
  file  = "table.log"
}
`), 0644))

	seed := int64(42)
	g := &Globals{Config: path, LogLevel: "debug", Seed: &seed}
	cfg, err := g.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "table.log", cfg.Log.File)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
}

func TestLoadConfigRejectsBadOverride(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "loud"}
	_, err := g.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRenderResults(t *testing.T) {
	rec := simulator.Recommendation{
		Available: true,
		Action:    simulator.Stand,
		Reason:    "best EV -54.00",
		Result:    simulator.Result{Action: simulator.Stand, MeanEV: -54},
		Alternatives: []simulator.Result{
			{Action: simulator.Stand, WinRate: 0.23, LossRate: 0.77, MeanEV: -54},
			{Action: simulator.Hit, WinRate: 0.2, PushRate: 0.05, LossRate: 0.75, MeanEV: -55},
		},
	}

	out := renderResults(rec, 100)
	assert.Contains(t, out, "STAND      23.0%    0.0%   77.0%    -0.540  <")
	assert.Contains(t, out, "HIT")
	assert.Contains(t, out, "Best: STAND (best EV -54.00)")
}
