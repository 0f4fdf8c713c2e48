package game

import (
	"fmt"

	"github.com/lox/holdemcore/poker"
)

// StreetResult is the outcome of advancing one or more streets
type StreetResult struct {
	State  *GameState
	Cards  []poker.Card
	Events []Event
}

// boardCards is how many community cards are dealt moving off each street
var boardCards = map[Street]int{Preflop: 3, Flop: 1, Turn: 1, River: 0}

// AdvanceStreet deals the next street's community cards from deck and opens
// a new betting round. Moving off the river deals nothing and leaves the
// state at Showdown, ready for ResolveShowdown.
func AdvanceStreet(state *GameState, deck *poker.Deck) (*StreetResult, error) {
	return advance(state, func(n int) ([]poker.Card, error) {
		return deck.Deal(n)
	})
}

// AdvanceStreetFromBoard is AdvanceStreet for callers that kept the
// FutureBoard from StartHand instead of the deck. The next cards are taken
// from futureBoard following those already on the board.
func AdvanceStreetFromBoard(state *GameState, futureBoard []poker.Card) (*StreetResult, error) {
	return advance(state, func(n int) ([]poker.Card, error) {
		from := len(state.Board)
		if from+n > len(futureBoard) {
			return nil, fmt.Errorf("%w: need %d, have %d", ErrBoardExhausted, from+n, len(futureBoard))
		}
		return futureBoard[from : from+n : from+n], nil
	})
}

func advance(state *GameState, deal func(n int) ([]poker.Card, error)) (*StreetResult, error) {
	if state.Complete || state.Street >= Showdown {
		return nil, ErrHandComplete
	}
	if !IsBettingRoundComplete(state) {
		return nil, fmt.Errorf("%w: seat %d to act", ErrRoundInProgress, state.CurrentSeat)
	}

	g := state.Clone()
	var cards []poker.Card
	if n := boardCards[g.Street]; n > 0 {
		dealt, err := deal(n)
		if err != nil {
			return nil, fmt.Errorf("deal %s: %w", g.Street+1, err)
		}
		cards = append(cards, dealt...)
	}
	g.Street++
	g.Board = append(g.Board, cards...)

	for _, s := range g.Seats {
		if s != nil {
			s.BetInRound = 0
		}
	}
	g.CurrentBet = 0
	g.MinRaise = g.BigBlind
	g.CallOnlySeats = nil
	g.LastAction = nil

	var events []Event
	if len(cards) > 0 {
		e := newEvent(EventCommunityCards, g, NoSeat)
		e.Cards = cards
		events = append(events, e)
	}

	if g.Street == Showdown {
		g.CurrentSeat = NoSeat
		g.ClosingSeat = NoSeat
		return &StreetResult{State: g, Cards: cards, Events: events}, nil
	}

	first := GetNextSeat(g.Seats, g.DealerSeat)
	if first == NoSeat {
		g.ClosingSeat = NoSeat
	} else {
		g.ClosingSeat = prevSeat(g.Seats, first)
	}
	g.CloserHasActed = false
	g.CurrentSeat = nextActor(g, g.DealerSeat)

	return &StreetResult{State: g, Cards: cards, Events: events}, nil
}

// AdvanceToNextDecision keeps dealing streets while no betting decision is
// pending, stopping at the first street that needs an action or at Showdown.
// It is how callers run out the board once everyone but one seat is all-in.
func AdvanceToNextDecision(state *GameState, deck *poker.Deck) (*StreetResult, error) {
	out := &StreetResult{State: state}
	for !out.State.Complete && out.State.Street < Showdown && IsBettingRoundComplete(out.State) {
		res, err := AdvanceStreet(out.State, deck)
		if err != nil {
			return nil, err
		}
		out.State = res.State
		out.Cards = append(out.Cards, res.Cards...)
		out.Events = append(out.Events, res.Events...)
	}
	return out, nil
}
