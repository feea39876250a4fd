// Package command implements the text command language shared by the
// console and the websocket feed.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/game"
)

var (
	ErrEmpty   = errors.New("empty command")
	ErrUnknown = errors.New("unknown command")
	ErrUsage   = errors.New("usage")
)

// Verb identifies a command.
type Verb string

const (
	Reset      Verb = "reset"
	Start      Verb = "start"
	Cancel     Verb = "cancel"
	Hit        Verb = "hit"
	Double     Verb = "double"
	Stand      Verb = "stand"
	Split      Verb = "split"
	Select     Verb = "hand"
	Dealer     Verb = "dealer"
	Player     Verb = "player"
	Table      Verb = "table"
	Burn       Verb = "burn"
	BurnLast   Verb = "burnlast"
	ClearBurns Verb = "clearburns"
	Remove     Verb = "remove"
	Undo       Verb = "undo"
	Resolve    Verb = "resolve"
	Decks      Verb = "decks"
	Bankroll   Verb = "bankroll"
	Charlie    Verb = "charlie"
	Stats      Verb = "stats"
	History    Verb = "history"
	SideBets   Verb = "sidebets"
	Bet        Verb = "bet"
	Help       Verb = "help"
	Quit       Verb = "quit"
)

var aliases = map[string]Verb{
	"reset":      Reset,
	"shuffle":    Reset,
	"start":      Start,
	"deal":       Start,
	"new":        Start,
	"cancel":     Cancel,
	"hit":        Hit,
	"h":          Hit,
	"double":     Double,
	"d":          Double,
	"dd":         Double,
	"stand":      Stand,
	"s":          Stand,
	"split":      Split,
	"p":          Split,
	"hand":       Select,
	"dealer":     Dealer,
	"up":         Dealer,
	"player":     Player,
	"card":       Player,
	"table":      Table,
	"t":          Table,
	"burn":       Burn,
	"b":          Burn,
	"burnlast":   BurnLast,
	"clearburns": ClearBurns,
	"remove":     Remove,
	"rm":         Remove,
	"undo":       Undo,
	"u":          Undo,
	"resolve":    Resolve,
	"settle":     Resolve,
	"r":          Resolve,
	"decks":      Decks,
	"bankroll":   Bankroll,
	"br":         Bankroll,
	"charlie":    Charlie,
	"stats":      Stats,
	"history":    History,
	"hist":       History,
	"sidebets":   SideBets,
	"side":       SideBets,
	"bet":        Bet,
	"help":       Help,
	"?":          Help,
	"quit":       Quit,
	"q":          Quit,
	"exit":       Quit,
}

// Command is a parsed command line. Hand and Pos are zero based; the text
// form counts from one.
type Command struct {
	Verb  Verb
	Rank  deck.Rank
	Pile  game.Pile
	Hand  int
	Pos   int
	N     int
	Decks float64
	On    bool
}

// Usage lists the command syntax.
var Usage = []string{
	"reset [decks]             rebuild the shoe",
	"start [bet]               begin a round (default: suggested bet)",
	"cancel                    abandon the round, returning its cards",
	"hit [rank]                add a card to the active hand (random if omitted)",
	"double [rank]             double down on the active hand",
	"stand                     stand on the active hand",
	"split                     split the active pair",
	"hand <n>                  select hand n",
	"dealer <rank>             add a dealer card",
	"player <n> [rank]         add a card to hand n",
	"table <rank>              record another player's card",
	"burn <rank>               record a burned card",
	"burnlast                  move the last table card to the burn pile",
	"clearburns                return burned cards to the shoe",
	"remove <pile> [n] <pos>   take a card out of a pile",
	"undo                      return the most recent card",
	"resolve                   settle the round",
	"decks <n>                 set decks remaining (0 = shoe size)",
	"bankroll <n>              set the bankroll",
	"charlie on|off            toggle six-card charlie",
	"stats                     session statistics",
	"history [n]               recent rounds",
	"sidebets                  side bet analysis",
	"bet                       suggested bet",
	"quit                      exit",
}

// Parse parses one command line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}

	verb, ok := aliases[fields[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknown, fields[0])
	}
	cmd := Command{Verb: verb}
	args := fields[1:]

	var err error
	switch verb {
	case Cancel, Stand, Split, BurnLast, ClearBurns, Undo, Resolve, Stats, SideBets, Bet, Help, Quit:
		err = arity(verb, args, 0, 0)

	case Reset:
		if err = arity(verb, args, 0, 1); err == nil && len(args) == 1 {
			cmd.N, err = positive(verb, args[0])
		}

	case Start, History:
		if err = arity(verb, args, 0, 1); err == nil && len(args) == 1 {
			cmd.N, err = positive(verb, args[0])
		}

	case Hit, Double:
		if err = arity(verb, args, 0, 1); err == nil && len(args) == 1 {
			cmd.Rank, err = rank(args[0])
		}

	case Dealer, Table, Burn:
		if err = arity(verb, args, 1, 1); err == nil {
			cmd.Rank, err = parseRank(args[0])
		}

	case Select:
		if err = arity(verb, args, 1, 1); err == nil {
			cmd.Hand, err = index(verb, args[0])
		}

	case Player:
		if err = arity(verb, args, 1, 2); err != nil {
			break
		}
		if cmd.Hand, err = index(verb, args[0]); err == nil && len(args) == 2 {
			cmd.Rank, err = rank(args[1])
		}

	case Remove:
		cmd, err = parseRemove(cmd, args)

	case Decks:
		if err = arity(verb, args, 1, 1); err == nil {
			cmd.Decks, err = strconv.ParseFloat(args[0], 64)
			if err != nil {
				err = fmt.Errorf("%w: decks <n>: %q is not a number", ErrUsage, args[0])
			}
		}

	case Bankroll:
		if err = arity(verb, args, 1, 1); err == nil {
			cmd.N, err = strconv.Atoi(args[0])
			if err != nil {
				err = fmt.Errorf("%w: bankroll <n>: %q is not a number", ErrUsage, args[0])
			}
		}

	case Charlie:
		if err = arity(verb, args, 1, 1); err != nil {
			break
		}
		switch args[0] {
		case "on", "true", "yes", "1":
			cmd.On = true
		case "off", "false", "no", "0":
		default:
			err = fmt.Errorf("%w: charlie on|off", ErrUsage)
		}
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseRemove(cmd Command, args []string) (Command, error) {
	if len(args) < 2 {
		return cmd, fmt.Errorf("%w: remove <pile> [n] <pos>", ErrUsage)
	}
	pile, err := game.ParsePile(args[0])
	if err != nil {
		return cmd, err
	}
	cmd.Pile = pile

	rest := args[1:]
	if pile == game.PlayerPile {
		if len(rest) != 2 {
			return cmd, fmt.Errorf("%w: remove player <n> <pos>", ErrUsage)
		}
		if cmd.Hand, err = index(Remove, rest[0]); err != nil {
			return cmd, err
		}
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return cmd, fmt.Errorf("%w: remove %s <pos>", ErrUsage, pile)
	}
	cmd.Pos, err = index(Remove, rest[0])
	return cmd, err
}

func arity(verb Verb, args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		for _, u := range Usage {
			if strings.HasPrefix(u, string(verb)+" ") {
				return fmt.Errorf("%w: %s", ErrUsage, strings.TrimSpace(strings.SplitN(u, "  ", 2)[0]))
			}
		}
		return fmt.Errorf("%w: %s", ErrUsage, verb)
	}
	return nil
}

func positive(verb Verb, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s expects a positive number, got %q", ErrUsage, verb, s)
	}
	return n, nil
}

// index converts a one-based position to zero-based.
func index(verb Verb, s string) (int, error) {
	n, err := positive(verb, s)
	return n - 1, err
}

// rank parses an optional rank; "?" and "random" draw from the shoe.
func rank(s string) (deck.Rank, error) {
	if s == "?" || s == "random" || s == "rnd" {
		return deck.NoRank, nil
	}
	return parseRank(s)
}

func parseRank(s string) (deck.Rank, error) {
	r, err := deck.ParseRank(s)
	if err != nil {
		return deck.NoRank, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return r, nil
}
