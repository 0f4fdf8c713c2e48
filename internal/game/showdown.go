package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdemcore/poker"
)

// FoldedHandName is the hand name reported for seats that folded
const FoldedHandName = "Folded"

// Award is a payout from one pot to one seat
type Award struct {
	Seat     int    `json:"seat"`
	Amount   int    `json:"amount"`
	PotIndex int    `json:"pot_index"`
	HandName string `json:"hand_name,omitempty"`
}

// SeatResult is the net outcome of a hand for one participating seat
type SeatResult struct {
	Seat       int          `json:"seat"`
	PlayerID   string       `json:"player_id"`
	Name       string       `json:"name"`
	ChipChange int          `json:"chip_change"`
	Winnings   int          `json:"winnings"`
	TotalBet   int          `json:"total_bet"`
	HoleCards  []poker.Card `json:"hole_cards,omitempty"`
	HandName   string       `json:"hand_name,omitempty"`
	Folded     bool         `json:"folded"`
}

// ShowdownResult is the outcome of ResolveShowdown
type ShowdownResult struct {
	State   *GameState
	Awards  []Award
	Results []SeatResult
	Events  []Event
}

// ResolveShowdown pays out every pot to the best eligible hand and completes
// the hand. holeCards may be nil when the state still carries each seat's
// cards. Split pots divide evenly; leftover chips go one at a time to the
// winners nearest the dealer's left, measured from the state's DealerSeat.
func ResolveShowdown(state *GameState, holeCards map[int][]poker.Card) (*ShowdownResult, error) {
	if state.Complete {
		return nil, ErrHandComplete
	}

	g := state.Clone()
	for seat, hc := range holeCards {
		if s := g.Seat(seat); s != nil && len(hc) > 0 {
			s.HoleCards = slices.Clone(hc)
		}
	}
	cards := func(seat int) []poker.Card {
		return g.Seats[seat].HoleCards
	}

	pots := CalculatePots(g.Seats)
	if len(pots) == 0 || totalPot(pots) != g.Pot {
		pots = []Pot{{Amount: g.Pot, Eligible: liveSeats(g)}}
	}

	handNames := make(map[int]string)
	for _, s := range g.Seats {
		if !s.inHand() {
			continue
		}
		if hc := cards(s.Number); len(hc) > 0 {
			rank, _, err := poker.FindBestHand(hc, g.Board)
			if err != nil {
				return nil, fmt.Errorf("seat %d: %w", s.Number, err)
			}
			handNames[s.Number] = rank.String()
		}
	}

	var awards []Award
	var events []Event
	for i, pot := range pots {
		var contenders []poker.Contender
		for _, seat := range pot.Eligible {
			if s := g.Seat(seat); s.inHand() && len(cards(seat)) > 0 {
				contenders = append(contenders, poker.Contender{Seat: seat, HoleCards: cards(seat)})
			}
		}
		if len(contenders) == 0 {
			// Everyone eligible for this layer is gone; let the live hands
			// contest it instead of losing chips.
			for _, seat := range liveSeats(g) {
				if len(cards(seat)) > 0 {
					contenders = append(contenders, poker.Contender{Seat: seat, HoleCards: cards(seat)})
				}
			}
		}
		if len(contenders) == 0 {
			return nil, fmt.Errorf("pot %d: %w", i, ErrMissingHoleCards)
		}

		winners := make([]int, 0, len(contenders))
		if len(contenders) == 1 {
			winners = append(winners, contenders[0].Seat)
		} else {
			showings, err := poker.DetermineWinners(contenders, g.Board)
			if err != nil {
				return nil, fmt.Errorf("pot %d: %w", i, err)
			}
			for _, sh := range showings {
				winners = append(winners, sh.Seat)
			}
		}

		for _, share := range splitPot(pot.Amount, winners, g.DealerSeat, len(g.Seats)) {
			g.Seats[share.Seat].Stack += share.Amount
			share.PotIndex = i
			share.HandName = handNames[share.Seat]
			awards = append(awards, share)

			e := newEvent(EventPotAwarded, g, share.Seat)
			e.Amount = share.Amount
			e.PotIndex = i
			e.HandName = share.HandName
			events = append(events, e)
		}
	}

	g.Pot = 0
	finish(g)
	events = append(events, newEvent(EventHandComplete, g, NoSeat))

	return &ShowdownResult{
		State:   g,
		Awards:  awards,
		Results: seatResults(g, awards, handNames),
		Events:  events,
	}, nil
}

// splitPot divides amount evenly between winners. The remainder is handed
// out a chip at a time in clockwise order starting left of the dealer.
func splitPot(amount int, winners []int, dealer, seats int) []Award {
	order := slices.Clone(winners)
	slices.SortFunc(order, func(a, b int) int {
		return wrap(a-dealer-1, seats) - wrap(b-dealer-1, seats)
	})

	share := amount / len(order)
	extra := amount % len(order)
	out := make([]Award, len(order))
	for i, seat := range order {
		out[i] = Award{Seat: seat, Amount: share}
		if i < extra {
			out[i].Amount++
		}
	}
	return out
}

func liveSeats(g *GameState) []int {
	var out []int
	for _, s := range g.Seats {
		if s.inHand() {
			out = append(out, s.Number)
		}
	}
	return out
}

// seatResults summarises the hand for every seat that was dealt in
func seatResults(g *GameState, awards []Award, handNames map[int]string) []SeatResult {
	won := make(map[int]int, len(awards))
	for _, a := range awards {
		won[a.Seat] += a.Amount
	}

	var out []SeatResult
	for _, s := range g.Seats {
		if s == nil || !s.Active {
			continue
		}
		r := SeatResult{
			Seat:       s.Number,
			PlayerID:   s.PlayerID,
			Name:       s.Name,
			Winnings:   won[s.Number],
			TotalBet:   s.TotalBetInHand,
			ChipChange: won[s.Number] - s.TotalBetInHand,
			HoleCards:  slices.Clone(s.HoleCards),
			HandName:   handNames[s.Number],
			Folded:     s.Folded,
		}
		if s.Folded {
			r.HandName = FoldedHandName
		}
		out = append(out, r)
	}
	return out
}
