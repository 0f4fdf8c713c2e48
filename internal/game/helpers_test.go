package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lox/holdemcore/poker"
)

// seatsWithStacks seats one player per stack, seat numbers matching index
func seatsWithStacks(stacks ...int) []PlayerSeat {
	seats := make([]PlayerSeat, len(stacks))
	for i, stack := range stacks {
		seats[i] = PlayerSeat{
			Number:   i,
			PlayerID: fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("Player%d", i),
			Stack:    stack,
		}
	}
	return seats
}

// startStacked starts a 10/20 hand on a deck stacked with deal on top.
// Hole cards go two at a time starting left of the dealer, then the board.
func startStacked(t *testing.T, dealer int, deal string, stacks ...int) *HandStart {
	t.Helper()
	deck, err := poker.NewStackedDeck(poker.MustParseCards(deal)...)
	if err != nil {
		t.Fatalf("stacked deck: %v", err)
	}
	hand, err := StartHandWithDeck(deck, seatsWithStacks(stacks...), HandConfig{
		DealerSeat: dealer,
		SmallBlind: 10,
		BigBlind:   20,
	})
	if err != nil {
		t.Fatalf("start hand: %v", err)
	}
	return hand
}

// act applies an action that must be accepted
func act(t *testing.T, state *GameState, seat int, kind ActionKind, amount ...int) *ActionResult {
	t.Helper()
	req := ActionRequest{Kind: kind}
	if len(amount) > 0 {
		req.Amount = amount[0]
	}
	res, err := ApplyAction(state, seat, req)
	if err != nil {
		t.Fatalf("seat %d %s: %v", seat, kind, err)
	}
	return res
}

// nextStreet deals the next street, requiring success
func nextStreet(t *testing.T, state *GameState, deck *poker.Deck) *GameState {
	t.Helper()
	res, err := AdvanceStreet(state, deck)
	if err != nil {
		t.Fatalf("advance street: %v", err)
	}
	return res.State
}

// requireChips checks that stacks plus the pot still add up to total
func requireChips(t *testing.T, state *GameState, total int) {
	t.Helper()
	sum := state.Pot
	for _, s := range state.Seats {
		if s != nil {
			sum += s.Stack
		}
	}
	if sum != total {
		t.Fatalf("chips not conserved: have %d, want %d", sum, total)
	}
}

// requireRejected checks an action is refused for the given reason
func requireRejected(t *testing.T, state *GameState, seat int, req ActionRequest, reason Reason) {
	t.Helper()
	_, err := ApplyAction(state, seat, req)
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("seat %d %s %d: expected rejection, got %v", seat, req.Kind, req.Amount, err)
	}
	if rej.Reason != reason {
		t.Fatalf("seat %d %s %d: rejected for %s (%s), want %s", seat, req.Kind, req.Amount, rej.Reason, rej.Message, reason)
	}
}

// requireValid checks an action passes validation
func requireValid(t *testing.T, state *GameState, seat int, req ActionRequest) {
	t.Helper()
	if v := ValidateAction(state, seat, req); !v.Valid {
		t.Fatalf("seat %d %s %d should be valid: %v", seat, req.Kind, req.Amount, v.Err())
	}
}

