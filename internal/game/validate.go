package game

import "fmt"

// Validation is the outcome of ValidateAction. On success it carries the
// legal bounds for the requested action: MinAmount/MaxAmount are target
// totals for bet and raise, CallAmount the chips a call would add.
type Validation struct {
	Valid      bool
	Seat       int
	Kind       ActionKind
	Reason     Reason
	Message    string
	MinAmount  int
	MaxAmount  int
	CallAmount int
}

// Err returns the rejection as an error, or nil when the action is valid
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &RejectionError{Seat: v.Seat, Reason: v.Reason, Message: v.Message}
}

// ValidateAction checks whether seat may take the requested action. It never
// modifies state.
func ValidateAction(state *GameState, seat int, req ActionRequest) Validation {
	v := Validation{Seat: seat, Kind: req.Kind}
	reject := func(reason Reason, format string, args ...any) Validation {
		v.Reason = reason
		v.Message = fmt.Sprintf(format, args...)
		return v
	}

	if state.Complete {
		return reject(ReasonHandComplete, "hand is complete")
	}
	p := state.Seat(seat)
	switch {
	case p == nil:
		return reject(ReasonSeatNotFound, "no player in seat %d", seat)
	case seat != state.CurrentSeat:
		return reject(ReasonNotYourTurn, "not your turn")
	case p.Folded:
		return reject(ReasonFolded, "already folded")
	case p.AllIn:
		return reject(ReasonAllIn, "already all-in")
	case !p.Active || p.SittingOut:
		return reject(ReasonInactive, "not active in this hand")
	}

	toCall := max(state.CurrentBet-p.BetInRound, 0)
	callOnly := state.CallOnlySeats[seat]

	switch req.Kind {
	case Fold:

	case Check:
		if toCall > 0 {
			return reject(ReasonCannotCheck, "cannot check, must call %d", toCall)
		}

	case Call:
		if toCall == 0 {
			return reject(ReasonNothingToCall, "nothing to call")
		}
		v.CallAmount = min(toCall, p.Stack)

	case Bet:
		if callOnly {
			return reject(ReasonShortAllIn, "action was not reopened by the short all-in, call or fold")
		}
		if state.CurrentBet > 0 {
			return reject(ReasonMustRaise, "there is already a bet of %d, raise instead", state.CurrentBet)
		}
		v.MinAmount = min(state.BigBlind, p.Stack)
		v.MaxAmount = p.Stack
		if req.Amount > p.Stack {
			return reject(ReasonInsufficientChips, "bet of %d exceeds stack of %d", req.Amount, p.Stack)
		}
		if req.Amount <= 0 || (req.Amount < state.BigBlind && req.Amount != p.Stack) {
			return reject(ReasonBetTooSmall, "minimum bet is %d", v.MinAmount)
		}

	case Raise:
		if callOnly {
			return reject(ReasonShortAllIn, "action was not reopened by the short all-in, call or fold")
		}
		if state.CurrentBet == 0 {
			return reject(ReasonNothingToRaise, "nothing to raise, bet instead")
		}
		minTotal := state.CurrentBet + state.MinRaise
		maxTotal := p.BetInRound + p.Stack
		v.MinAmount = minTotal
		v.MaxAmount = maxTotal
		if req.Amount-p.BetInRound > p.Stack {
			return reject(ReasonInsufficientChips, "raise to %d exceeds stack, maximum is %d", req.Amount, maxTotal)
		}
		if req.Amount < minTotal {
			if maxTotal < minTotal {
				return reject(ReasonRaiseTooSmall, "stack cannot reach minimum raise to %d, go all-in instead", minTotal)
			}
			return reject(ReasonRaiseTooSmall, "minimum raise is to %d", minTotal)
		}

	case AllIn:
		if p.Stack <= 0 {
			return reject(ReasonNoChips, "no chips to go all-in with")
		}
		if callOnly && p.BetInRound+p.Stack > state.CurrentBet {
			return reject(ReasonShortAllIn, "action was not reopened by the short all-in, call or fold")
		}
		v.MinAmount = p.BetInRound + p.Stack
		v.MaxAmount = v.MinAmount

	default:
		return reject(ReasonUnknownAction, "unknown action %d", req.Kind)
	}

	v.Valid = true
	return v
}

// LegalAction is one action a seat may take and its bounds
type LegalAction struct {
	Kind       ActionKind
	MinAmount  int
	MaxAmount  int
	CallAmount int
}

// LegalActions lists every action ValidateAction would accept for the seat,
// using the smallest legal amount to probe bet and raise.
func LegalActions(state *GameState, seat int) []LegalAction {
	var out []LegalAction
	p := state.Seat(seat)
	for _, kind := range []ActionKind{Fold, Check, Call, Bet, Raise, AllIn} {
		req := ActionRequest{Kind: kind}
		switch kind {
		case Bet:
			if p != nil {
				req.Amount = min(state.BigBlind, p.Stack)
			}
		case Raise:
			req.Amount = state.CurrentBet + state.MinRaise
		}
		if v := ValidateAction(state, seat, req); v.Valid {
			out = append(out, LegalAction{
				Kind:       kind,
				MinAmount:  v.MinAmount,
				MaxAmount:  v.MaxAmount,
				CallAmount: v.CallAmount,
			})
		}
	}
	return out
}
