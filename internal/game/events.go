package game

import "github.com/lox/holdemcore/poker"

// EventType represents a game event type
type EventType string

// Event types emitted by the engine, in the order a hand produces them
const (
	EventNewHand        EventType = "new_hand"
	EventDealCards      EventType = "deal_cards"
	EventPostBlind      EventType = "post_blind"
	EventPlayerAction   EventType = "player_action"
	EventCommunityCards EventType = "community_cards"
	EventPotAwarded     EventType = "pot_awarded"
	EventHandComplete   EventType = "hand_complete"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Blind names used on post_blind events
const (
	BlindSmall = "small"
	BlindBig   = "big"
)

// Event is one entry in a hand's audit log. Only the fields relevant to the
// event type are set. The engine never reads its own events back.
type Event struct {
	Type     EventType    `json:"type"`
	Street   Street       `json:"street"`
	Seat     int          `json:"seat"`
	Action   *ActionKind  `json:"action,omitempty"`
	Amount   int          `json:"amount,omitempty"`
	Total    int          `json:"total,omitempty"`
	Blind    string       `json:"blind,omitempty"`
	Cards    []poker.Card `json:"cards,omitempty"`
	Pot      int          `json:"pot"`
	PotIndex int          `json:"pot_index,omitempty"`
	HandName string       `json:"hand_name,omitempty"`
	AllIn    bool         `json:"all_in,omitempty"`
}

func newEvent(typ EventType, state *GameState, seat int) Event {
	return Event{Type: typ, Street: state.Street, Seat: seat, Pot: state.Pot}
}

// actionEvent records the chips an action added and the seat's resulting
// bet for the round.
func actionEvent(state *GameState, seat int, kind ActionKind, amount, total int, allIn bool) Event {
	e := newEvent(EventPlayerAction, state, seat)
	e.Action = &kind
	e.Amount = amount
	e.Total = total
	e.AllIn = allIn
	return e
}
