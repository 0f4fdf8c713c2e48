package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lox/holdemcore/poker"
)

func TestAdvanceStreetResetsRound(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 2, "", 1000, 1000, 1000, 1000)
	state := hand.State
	if state.CurrentSeat != 1 {
		t.Fatalf("expected seat 1 under the gun, got %d", state.CurrentSeat)
	}

	state = act(t, state, 1, Raise, 60).State
	state = act(t, state, 2, Call).State
	state = act(t, state, 3, Call).State
	state = act(t, state, 0, Call).State
	if !IsBettingRoundComplete(state) {
		t.Fatal("preflop should be complete")
	}

	res, err := AdvanceStreet(state, hand.Deck)
	if err != nil {
		t.Fatalf("advance street: %v", err)
	}
	next := res.State

	if next.Street != Flop {
		t.Errorf("expected flop, got %s", next.Street)
	}
	if len(res.Cards) != 3 {
		t.Errorf("expected 3 cards dealt, got %d", len(res.Cards))
	}
	if diff := cmp.Diff(res.Cards, next.Board); diff != "" {
		t.Errorf("board differs from dealt cards (-dealt +board):\n%s", diff)
	}
	if next.CurrentBet != 0 || next.MinRaise != 20 {
		t.Errorf("current bet %d min raise %d, want 0/20", next.CurrentBet, next.MinRaise)
	}
	if next.CallOnlySeats != nil {
		t.Errorf("call-only seats should reset, got %v", next.CallOnlySeats)
	}
	for _, s := range next.Seats {
		if s.BetInRound != 0 || s.TotalBetInHand != 60 {
			t.Errorf("seat %d: round bet %d hand bet %d, want 0/60", s.Number, s.BetInRound, s.TotalBetInHand)
		}
	}
	if next.CurrentSeat != 3 {
		t.Errorf("first seat left of the dealer acts, got %d", next.CurrentSeat)
	}
	if next.ClosingSeat != 2 {
		t.Errorf("the dealer closes, got %d", next.ClosingSeat)
	}
	if next.CloserHasActed {
		t.Error("closer has not acted on a fresh street")
	}

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	if e := res.Events[0]; e.Type != EventCommunityCards || e.Pot != 240 {
		t.Errorf("event = %s pot %d, want community_cards pot 240", e.Type, e.Pot)
	}
}

func TestAdvanceStreetSkipsFoldedAndAllIn(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 0, "", 1000, 1000, 1000, 100)
	state := act(t, hand.State, 3, AllIn).State
	state = act(t, state, 0, Fold).State
	state = act(t, state, 1, Call).State
	state = act(t, state, 2, Call).State
	if !IsBettingRoundComplete(state) {
		t.Fatal("preflop should be complete")
	}

	state = nextStreet(t, state, hand.Deck)
	if state.CurrentSeat != 1 || state.ClosingSeat != 2 {
		t.Fatalf("current %d closer %d, want 1/2", state.CurrentSeat, state.ClosingSeat)
	}

	state = act(t, state, 1, Check).State
	if state.CurrentSeat != 2 {
		t.Fatalf("expected seat 2 to act, got %d", state.CurrentSeat)
	}
	state = act(t, state, 2, Bet, 50).State
	if state.CurrentSeat != 1 {
		t.Fatalf("expected seat 1 to face the bet, got %d", state.CurrentSeat)
	}
	state = act(t, state, 1, Call).State
	if !IsBettingRoundComplete(state) {
		t.Error("flop should be complete after the call")
	}
}

func TestAdvanceStreetRejectsOpenRound(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 0, "", 1000, 1000, 1000)
	if _, err := AdvanceStreet(hand.State, hand.Deck); !errors.Is(err, ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress, got %v", err)
	}
}

func TestAdvanceStreetFromBoardMatchesDeck(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 0, "", 1000, 1000)
	state := act(t, hand.State, 0, Call).State
	state = act(t, state, 1, Check).State

	fromDeck := state
	fromBoard := state
	for range 4 {
		a, err := AdvanceStreet(fromDeck, hand.Deck)
		if err != nil {
			t.Fatalf("advance from deck: %v", err)
		}
		b, err := AdvanceStreetFromBoard(fromBoard, hand.FutureBoard)
		if err != nil {
			t.Fatalf("advance from board: %v", err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("%s: results differ (-deck +board):\n%s", a.State.Street, diff)
		}

		fromDeck, fromBoard = a.State, b.State
		if fromDeck.Street == Showdown {
			break
		}
		fromDeck = act(t, fromDeck, fromDeck.CurrentSeat, Check).State
		fromDeck = act(t, fromDeck, fromDeck.CurrentSeat, Check).State
		fromBoard = act(t, fromBoard, fromBoard.CurrentSeat, Check).State
		fromBoard = act(t, fromBoard, fromBoard.CurrentSeat, Check).State
	}
	if fromBoard.Street != Showdown {
		t.Errorf("expected showdown, got %s", fromBoard.Street)
	}
	if diff := cmp.Diff(hand.FutureBoard, fromBoard.Board); diff != "" {
		t.Errorf("board (-want +got):\n%s", diff)
	}

	if _, err := AdvanceStreetFromBoard(state, hand.FutureBoard[:2]); !errors.Is(err, ErrBoardExhausted) {
		t.Errorf("expected ErrBoardExhausted, got %v", err)
	}
}

func TestAdvanceStreetDeckExhausted(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 0, "", 1000, 1000)
	state := act(t, hand.State, 0, Call).State
	state = act(t, state, 1, Check).State

	if _, err := hand.Deck.Deal(hand.Deck.Remaining() - 1); err != nil {
		t.Fatalf("drain deck: %v", err)
	}
	if _, err := AdvanceStreet(state, hand.Deck); !errors.Is(err, poker.ErrDeckExhausted) {
		t.Errorf("expected ErrDeckExhausted, got %v", err)
	}
}

func TestSkipToShowdownMultiway(t *testing.T) {
	t.Parallel()

	hand := startStacked(t, 0, "", 1000, 200, 300)
	state := act(t, hand.State, 0, Raise, 400).State
	state = act(t, state, 1, AllIn).State
	state = act(t, state, 2, AllIn).State

	// Seat 0 has everyone covered and nobody left to bet against.
	if state.CurrentSeat != NoSeat {
		t.Errorf("expected nobody to act, got seat %d", state.CurrentSeat)
	}
	if !ShouldSkipToShowdown(state) {
		t.Fatal("should skip to showdown")
	}

	run, err := AdvanceToNextDecision(state, hand.Deck)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if run.State.Street != Showdown {
		t.Errorf("expected showdown, got %s", run.State.Street)
	}
	if len(run.Cards) != 5 {
		t.Errorf("expected 5 cards run out, got %d", len(run.Cards))
	}

	res, err := ResolveShowdown(run.State, nil)
	if err != nil {
		t.Fatalf("resolve showdown: %v", err)
	}
	requireChips(t, res.State, 1500)
	if res.State.Pot != 0 {
		t.Errorf("expected empty pot, got %d", res.State.Pot)
	}
	if res.State.Seats[0].Stack < 700 {
		t.Errorf("uncalled chips return to seat 0, stack is %d", res.State.Seats[0].Stack)
	}
}
