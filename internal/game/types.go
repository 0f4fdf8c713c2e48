package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lox/holdemcore/poker"
)

// NoSeat marks the absence of a seat (no current actor, no closer).
const NoSeat = -1

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// MarshalText encodes the street by name
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ActionKind represents a player action
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "all_in"}

func (a ActionKind) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return actionNames[a]
}

// MarshalText encodes the action by its wire name
func (a ActionKind) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action wire name
func (a *ActionKind) UnmarshalText(text []byte) error {
	kind, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*a = kind
	return nil
}

// ParseActionKind parses one of fold, check, call, bet, raise or all_in.
// "allin" is accepted as an alias.
func ParseActionKind(s string) (ActionKind, error) {
	if s == "allin" {
		return AllIn, nil
	}
	for i, name := range actionNames {
		if name == s {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// ActionRequest is a player's requested action. Amount is the target total
// bet for the round (not a delta) and only matters for Bet and Raise.
type ActionRequest struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

// Seat is one occupied position at the table
type Seat struct {
	Number         int          `json:"seat"`
	PlayerID       string       `json:"player_id"`
	Name           string       `json:"name"`
	Stack          int          `json:"stack"`
	HoleCards      []poker.Card `json:"hole_cards,omitempty"`
	BetInRound     int          `json:"bet_in_round"`
	TotalBetInHand int          `json:"total_bet_in_hand"`
	Folded         bool         `json:"folded"`
	AllIn          bool         `json:"all_in"`
	SittingOut     bool         `json:"sitting_out"`
	Active         bool         `json:"active"`
}

// inHand reports whether the seat is still contesting the pot
func (s *Seat) inHand() bool {
	return s != nil && s.Active && !s.SittingOut && !s.Folded
}

// canAct reports whether the seat can still make betting decisions
func (s *Seat) canAct() bool {
	return s.inHand() && !s.AllIn
}

func (s *Seat) clone() *Seat {
	if s == nil {
		return nil
	}
	c := *s
	c.HoleCards = slices.Clone(s.HoleCards)
	return &c
}

// commit moves chips from the stack into the current bet and the pot
func (s *Seat) commit(amount int, state *GameState) {
	s.Stack -= amount
	s.BetInRound += amount
	s.TotalBetInHand += amount
	state.Pot += amount
	if s.Stack == 0 {
		s.AllIn = true
	}
}

// LastAction records the most recent action applied to the state
type LastAction struct {
	Seat   int        `json:"seat"`
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount"`
	Total  int        `json:"total"`
}

// GameState is the complete, serialisable state of a hand in progress.
// Seats is indexed by seat number; nil entries are empty seats.
type GameState struct {
	Street         Street       `json:"street"`
	Board          []poker.Card `json:"board"`
	Pot            int          `json:"pot"`
	Seats          []*Seat      `json:"seats"`
	DealerSeat     int          `json:"dealer_seat"`
	SmallBlindSeat int          `json:"small_blind_seat"`
	BigBlindSeat   int          `json:"big_blind_seat"`
	SmallBlind     int          `json:"small_blind"`
	BigBlind       int          `json:"big_blind"`
	CurrentSeat    int          `json:"current_seat"`
	CurrentBet     int          `json:"current_bet"`
	MinRaise       int          `json:"min_raise"`
	ClosingSeat    int          `json:"closing_seat"`
	CloserHasActed bool         `json:"closer_has_acted"`
	CallOnlySeats  map[int]bool `json:"call_only_seats,omitempty"`
	LastAction     *LastAction  `json:"last_action,omitempty"`
	Complete       bool         `json:"complete"`
}

// Clone returns a deep copy of the state
func (g *GameState) Clone() *GameState {
	c := *g
	c.Board = slices.Clone(g.Board)
	c.Seats = make([]*Seat, len(g.Seats))
	for i, s := range g.Seats {
		c.Seats[i] = s.clone()
	}
	c.CallOnlySeats = maps.Clone(g.CallOnlySeats)
	if g.LastAction != nil {
		la := *g.LastAction
		c.LastAction = &la
	}
	return &c
}

// Seat returns the seat at number n, or nil if it is empty or out of range
func (g *GameState) Seat(n int) *Seat {
	if n < 0 || n >= len(g.Seats) {
		return nil
	}
	return g.Seats[n]
}

// ViewFor returns a copy of the state with every other seat's hole cards
// removed. Pass NoSeat for a spectator view.
func (g *GameState) ViewFor(viewer int) *GameState {
	c := g.Clone()
	for _, s := range c.Seats {
		if s != nil && s.Number != viewer {
			s.HoleCards = nil
		}
	}
	return c
}

// CallAmount returns the chips the seat must add to call, capped at its stack
func (g *GameState) CallAmount(seat int) int {
	s := g.Seat(seat)
	if s == nil || s.BetInRound >= g.CurrentBet {
		return 0
	}
	return min(g.CurrentBet-s.BetInRound, s.Stack)
}

// InHandCount returns the number of seats still contesting the pot
func (g *GameState) InHandCount() int {
	return countSeats(g.Seats, (*Seat).inHand)
}

// CanActCount returns the number of seats that can still make decisions
func (g *GameState) CanActCount() int {
	return countSeats(g.Seats, (*Seat).canAct)
}

func countSeats(seats []*Seat, pred func(*Seat) bool) int {
	n := 0
	for _, s := range seats {
		if s != nil && pred(s) {
			n++
		}
	}
	return n
}
