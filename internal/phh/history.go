package phh

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lox/holdemcore/internal/game"
	"github.com/lox/holdemcore/internal/table"
	"github.com/lox/holdemcore/poker"
)

// FromSummary converts a finished hand into a PHH record. at stamps the
// record's date and time in UTC.
func FromSummary(tableID string, h *table.HandSummary, at time.Time) (*HandHistory, error) {
	if h == nil || h.Final == nil {
		return nil, fmt.Errorf("phh: hand summary is incomplete")
	}
	final := h.Final
	n := len(final.Seats)

	// Postflop order: clockwise from the seat after the button.
	var seats []*game.Seat
	for _, s := range final.Seats {
		if s != nil && s.Active {
			seats = append(seats, s)
		}
	}
	offset := func(seat int) int {
		return ((seat-final.DealerSeat-1)%n + n) % n
	}
	slices.SortFunc(seats, func(a, b *game.Seat) int {
		return cmp.Compare(offset(a.Number), offset(b.Number))
	})

	player := make(map[int]int, len(seats))
	for i, s := range seats {
		player[s.Number] = i + 1
	}

	results := make(map[int]game.SeatResult, len(h.Results))
	for _, r := range h.Results {
		results[r.Seat] = r
	}
	starting := make(map[int]int, len(h.Setup.Seats))
	for _, s := range h.Setup.Seats {
		starting[s.Number] = s.Stack
	}

	at = at.UTC()
	hh := &HandHistory{
		Variant:   NoLimitHoldem,
		Table:     tableID,
		SeatCount: n,
		MinBet:    final.BigBlind,
		HandID:    h.ID,
		Time:      at.Format(time.TimeOnly),
		TimeZone:  "UTC",
		Day:       at.Day(),
		Month:     int(at.Month()),
		Year:      at.Year(),
	}
	for _, s := range seats {
		blind := 0
		switch s.Number {
		case final.SmallBlindSeat:
			blind = final.SmallBlind
		case final.BigBlindSeat:
			blind = final.BigBlind
		}
		r := results[s.Number]

		hh.Seats = append(hh.Seats, s.Number+1)
		hh.Players = append(hh.Players, s.Name)
		hh.Antes = append(hh.Antes, 0)
		hh.BlindsOrStraddles = append(hh.BlindsOrStraddles, blind)
		hh.StartingStacks = append(hh.StartingStacks, starting[s.Number])
		hh.FinishingStacks = append(hh.FinishingStacks, starting[s.Number]+r.ChipChange)
		hh.Winnings = append(hh.Winnings, r.Winnings)
	}

	hh.Actions = actions(h, seats, player)
	return hh, nil
}

// actions replays the event log into PHH action lines
func actions(h *table.HandSummary, seats []*game.Seat, player map[int]int) []string {
	var (
		out     []string
		toMatch int
		shown   bool
	)
	for _, e := range h.Events {
		switch e.Type {
		case game.EventDealCards:
			out = append(out, fmt.Sprintf("d dh p%d %s", player[e.Seat], cardRun(e.Cards)))

		case game.EventPostBlind:
			// A short big blind still sets the full bet to match.
			if e.Blind == game.BlindBig {
				toMatch = max(toMatch, h.Final.BigBlind)
			}
			toMatch = max(toMatch, e.Amount)

		case game.EventCommunityCards:
			out = append(out, "d db "+cardRun(e.Cards))
			toMatch = 0

		case game.EventPlayerAction:
			if e.Action == nil {
				continue
			}
			out = append(out, FormatAction(player[e.Seat], *e.Action, e.Total, toMatch))
			toMatch = max(toMatch, e.Total)

		case game.EventPotAwarded:
			if !h.Showdown || shown {
				continue
			}
			shown = true
			for _, s := range seats {
				if !s.Folded {
					out = append(out, fmt.Sprintf("p%d sm %s", player[s.Number], cardRun(s.HoleCards)))
				}
			}
		}
	}
	return out
}

func cardRun(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
