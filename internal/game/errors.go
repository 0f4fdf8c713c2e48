package game

import (
	"errors"
	"fmt"
)

// Precondition violations. These indicate a caller bug and are never
// returned for ordinary player mistakes.
var (
	ErrNotEnoughPlayers = errors.New("at least 2 players required")
	ErrHandComplete     = errors.New("hand is already complete")
	ErrInvalidBlinds    = errors.New("invalid blinds")
	ErrInvalidDealer    = errors.New("dealer seat out of range")
	ErrMissingHoleCards = errors.New("no eligible seat with hole cards")
	ErrRoundInProgress  = errors.New("betting round is still in progress")
	ErrBoardExhausted   = errors.New("not enough board cards")
)

// Reason identifies why an action was rejected
type Reason string

const (
	ReasonSeatNotFound      Reason = "seat_not_found"
	ReasonNotYourTurn       Reason = "not_your_turn"
	ReasonFolded            Reason = "folded"
	ReasonAllIn             Reason = "all_in"
	ReasonInactive          Reason = "inactive"
	ReasonHandComplete      Reason = "hand_complete"
	ReasonCannotCheck       Reason = "cannot_check"
	ReasonNothingToCall     Reason = "nothing_to_call"
	ReasonMustRaise         Reason = "must_raise"
	ReasonNothingToRaise    Reason = "nothing_to_raise"
	ReasonBetTooSmall       Reason = "bet_too_small"
	ReasonRaiseTooSmall     Reason = "raise_too_small"
	ReasonInsufficientChips Reason = "insufficient_chips"
	ReasonNoChips           Reason = "no_chips"
	ReasonShortAllIn        Reason = "short_all_in"
	ReasonUnknownAction     Reason = "unknown_action"
)

// RejectionError is a user-facing action rejection
type RejectionError struct {
	Seat    int
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("seat %d: %s", e.Seat, e.Message)
}
