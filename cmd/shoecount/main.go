package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"shoecount.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed (overrides config)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Track a live shoe in the terminal UI"`
	Serve    ServeCmd         `cmd:"" help:"Serve the session over a websocket feed"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate one decision from the command line"`
	Bet      BetCmd           `cmd:"" help:"Suggest a bet for a running count"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("shoecount"),
		kong.Description("Card counting and decision support for live blackjack"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
