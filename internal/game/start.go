package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/holdemcore/poker"
)

// PlayerSeat describes an occupied seat when a hand starts
type PlayerSeat struct {
	Number     int
	PlayerID   string
	Name       string
	Stack      int
	SittingOut bool
}

// HandConfig holds the per-hand table settings
type HandConfig struct {
	DealerSeat int
	SmallBlind int
	BigBlind   int
	// MaxSeats sizes the seat array. Zero means one past the highest occupied seat.
	MaxSeats int
}

// HandStart is everything StartHand produces. The caller keeps Deck (or
// FutureBoard) for the rest of the hand and stores HoleCards privately.
type HandStart struct {
	State       *GameState
	Deck        *poker.Deck
	HoleCards   map[int][]poker.Card
	FutureBoard []poker.Card
	Events      []Event
}

// StartHand shuffles a fresh deck with rng and starts a hand.
func StartHand(rng *rand.Rand, seats []PlayerSeat, cfg HandConfig) (*HandStart, error) {
	return StartHandWithDeck(poker.NewDeck(rng), seats, cfg)
}

// StartHandWithDeck starts a hand dealing from the given deck: blinds are
// posted, two hole cards go to every participating seat starting left of the
// dealer, and the first actor and closer are set. The five community cards
// the deck will produce are returned as FutureBoard without being dealt.
func StartHandWithDeck(deck *poker.Deck, seats []PlayerSeat, cfg HandConfig) (*HandStart, error) {
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= 0 || cfg.SmallBlind > cfg.BigBlind {
		return nil, fmt.Errorf("%w: small %d, big %d", ErrInvalidBlinds, cfg.SmallBlind, cfg.BigBlind)
	}

	size := cfg.MaxSeats
	for _, ps := range seats {
		if ps.Number < 0 {
			return nil, fmt.Errorf("seat number %d out of range", ps.Number)
		}
		size = max(size, ps.Number+1)
	}
	if cfg.DealerSeat < 0 || cfg.DealerSeat >= size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDealer, cfg.DealerSeat)
	}

	state := &GameState{
		Street:         Preflop,
		Seats:          make([]*Seat, size),
		DealerSeat:     cfg.DealerSeat,
		SmallBlind:     cfg.SmallBlind,
		BigBlind:       cfg.BigBlind,
		SmallBlindSeat: NoSeat,
		BigBlindSeat:   NoSeat,
		CurrentSeat:    NoSeat,
		ClosingSeat:    NoSeat,
		MinRaise:       cfg.BigBlind,
	}

	participants := 0
	for _, ps := range seats {
		if state.Seats[ps.Number] != nil {
			return nil, fmt.Errorf("seat %d listed twice", ps.Number)
		}
		active := !ps.SittingOut && ps.Stack > 0
		if active {
			participants++
		}
		state.Seats[ps.Number] = &Seat{
			Number:     ps.Number,
			PlayerID:   ps.PlayerID,
			Name:       ps.Name,
			Stack:      max(ps.Stack, 0),
			SittingOut: ps.SittingOut,
			Active:     active,
		}
	}
	if participants < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrNotEnoughPlayers, participants)
	}

	events := []Event{newEvent(EventNewHand, state, cfg.DealerSeat)}

	// Heads-up the dealer posts the small blind.
	var sbSeat int
	if participants == 2 && state.Seats[cfg.DealerSeat].canAct() {
		sbSeat = cfg.DealerSeat
	} else {
		sbSeat = GetNextSeat(state.Seats, cfg.DealerSeat)
	}
	bbSeat := GetNextSeat(state.Seats, sbSeat)
	state.SmallBlindSeat = sbSeat
	state.BigBlindSeat = bbSeat

	events = append(events, postBlind(state, sbSeat, cfg.SmallBlind, BlindSmall))
	events = append(events, postBlind(state, bbSeat, cfg.BigBlind, BlindBig))
	state.CurrentBet = cfg.BigBlind

	holeCards := make(map[int][]poker.Card, participants)
	for i := 1; i <= size; i++ {
		s := state.Seats[wrap(cfg.DealerSeat+i, size)]
		if s == nil || !s.Active {
			continue
		}
		cards, err := deck.Deal(2)
		if err != nil {
			return nil, fmt.Errorf("deal hole cards: %w", err)
		}
		s.HoleCards = cards
		holeCards[s.Number] = cards
		e := newEvent(EventDealCards, state, s.Number)
		e.Cards = cards
		events = append(events, e)
	}

	future, err := deck.Peek(5)
	if err != nil {
		return nil, fmt.Errorf("reserve board: %w", err)
	}

	// The big blind holds the option; if it is already all-in the last seat
	// able to act before it closes instead.
	if state.Seats[bbSeat].canAct() {
		state.ClosingSeat = bbSeat
	} else {
		state.ClosingSeat = prevSeat(state.Seats, bbSeat)
	}
	state.CloserHasActed = false
	state.CurrentSeat = nextActor(state, bbSeat)

	return &HandStart{
		State:       state,
		Deck:        deck,
		HoleCards:   holeCards,
		FutureBoard: future,
		Events:      events,
	}, nil
}

// postBlind commits a blind, clamped to the seat's stack
func postBlind(state *GameState, seat, amount int, blind string) Event {
	s := state.Seats[seat]
	posted := min(amount, s.Stack)
	s.commit(posted, state)

	e := newEvent(EventPostBlind, state, seat)
	e.Amount = posted
	e.Blind = blind
	e.AllIn = s.AllIn
	return e
}
