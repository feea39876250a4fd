// Package game implements the live round state machine for one blackjack
// seat.
//
// The main type is Engine, which owns the shoe tracker, the active round, the
// auxiliary table and burn piles, the bankroll and the round ledger. Every
// command is synchronous; callers serialize access.
//
// # Basic Usage
//
//	e, err := game.NewEngine(game.DefaultSettings(), rng, logger)
//	if err != nil {
//	    return err
//	}
//	_ = e.StartRound(100)
//	_ = e.AddPlayerCard(0, deck.Ten)
//	_ = e.AddPlayerCard(0, deck.Nine)
//	_ = e.AddDealerCard(deck.Six)
//	rec, err := e.Resolve()
//
// # States
//
// An engine is Idle (no round), Active (hands being played) or Locked
// (settlement in progress). Resolve moves Active to Locked and back to Idle
// in one call. Resolution completes the dealer hand from a snapshot of the
// shoe, so only dealer cards entered with AddDealerCard are charged against
// the live count.
//
// # Deterministic Testing
//
// Random draws (Hit(deck.NoRank), resolution) use the injected *rand.Rand:
//
//	e, _ := game.NewEngine(settings, randutil.New(42), logger)
//
// # Errors
//
// Rejected commands return an error wrapping one of ErrInvalidConfiguration,
// ErrIllegalTransition, ErrResourceExhausted or ErrNothingToUndo and leave
// the engine unchanged.
package game
