// Package game implements the No-Limit Texas Hold'em rules engine.
//
// The engine is a set of free functions over an explicit *GameState value.
// It holds no state between calls, performs no I/O and never blocks; each
// call returns a fresh state plus an ordered event log, leaving its input
// untouched.
//
// # Basic Usage
//
// Start a hand, validate and apply actions, advance streets:
//
//	rng := randutil.New(42)
//	hand, err := game.StartHand(rng, seats, game.HandConfig{
//	    DealerSeat: 0, SmallBlind: 10, BigBlind: 20,
//	})
//	state := hand.State
//
//	res, err := game.ApplyAction(state, state.CurrentSeat, game.ActionRequest{Kind: game.Call})
//	state = res.State
//	if !res.HandComplete && game.IsBettingRoundComplete(state) {
//	    adv, err := game.AdvanceStreet(state, hand.Deck)
//	    state = adv.State
//	}
//
// When the river betting completes, ResolveShowdown splits each pot between
// the best hands.
//
// # Round Completion
//
// A betting round is closed by the "closer" seat: the last seat that must act
// before the round can end. Bets and full raises move the closer to the
// aggressor. A short all-in (less than a full raise) raises the bet to call
// without moving the closer, and restricts seats that had already matched the
// previous bet to calling or folding.
//
// # Concurrency
//
// Callers must serialise ApplyAction and AdvanceStreet per table and use the
// same Deck (or one restored to the same cursor) for every street of a hand.
// See internal/table for a reference driver.
package game
