package game

import (
	"fmt"

	"github.com/lox/holdemcore/poker"
)

// HandSetup is what is needed to start a hand again from scratch
type HandSetup struct {
	Seats  []PlayerSeat `json:"seats"`
	Config HandConfig   `json:"config"`
}

// ActionRecord is one applied action in a hand history
type ActionRecord struct {
	Seat    int           `json:"seat"`
	Request ActionRequest `json:"request"`
}

// ReplayHand rebuilds a hand from its setup, the full 52-card deck order and
// the actions applied so far, dealing streets whenever a betting round closes.
// It returns the resulting state and the deck positioned for the next deal.
func ReplayHand(setup HandSetup, deckOrder []poker.Card, history []ActionRecord) (*GameState, *poker.Deck, error) {
	deck, err := poker.RestoreDeck(deckOrder, 0)
	if err != nil {
		return nil, nil, err
	}
	start, err := StartHandWithDeck(deck, setup.Seats, setup.Config)
	if err != nil {
		return nil, nil, err
	}

	state := start.State
	for i, rec := range history {
		if state, err = settle(state, deck); err != nil {
			return nil, nil, fmt.Errorf("before action %d: %w", i, err)
		}
		res, err := ApplyAction(state, rec.Seat, rec.Request)
		if err != nil {
			return nil, nil, fmt.Errorf("action %d (seat %d %s): %w", i, rec.Seat, rec.Request.Kind, err)
		}
		state = res.State
	}
	if state, err = settle(state, deck); err != nil {
		return nil, nil, err
	}
	return state, deck, nil
}

// settle deals any streets owed before the next decision
func settle(state *GameState, deck *poker.Deck) (*GameState, error) {
	if state.Complete || state.Street == Showdown || !IsBettingRoundComplete(state) {
		return state, nil
	}
	res, err := AdvanceToNextDecision(state, deck)
	if err != nil {
		return nil, err
	}
	return res.State, nil
}
