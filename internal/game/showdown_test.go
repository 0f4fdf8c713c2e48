package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lox/holdemcore/poker"
)

// riverState builds a state at the end of river betting
func riverState(dealer int, board string, seats ...*Seat) *GameState {
	g := &GameState{
		Street:      River,
		Board:       poker.MustParseCards(board),
		Seats:       seats,
		DealerSeat:  dealer,
		CurrentSeat: NoSeat,
		ClosingSeat: NoSeat,
		SmallBlind:  10,
		BigBlind:    20,
		MinRaise:    20,
	}
	for _, s := range seats {
		if s != nil {
			g.Pot += s.TotalBetInHand
		}
	}
	return g
}

func showdownSeat(number, total int, cards string) *Seat {
	return &Seat{
		Number:         number,
		Active:         true,
		TotalBetInHand: total,
		HoleCards:      poker.MustParseCards(cards),
	}
}

func TestResolveShowdownOddChip(t *testing.T) {
	t.Parallel()

	folded := showdownSeat(0, 1, "7c 2d")
	folded.Folded = true

	tests := []struct {
		name   string
		dealer int
		want   map[int]int
	}{
		{"seat left of dealer gets the odd chip", 0, map[int]int{1: 101, 2: 100}},
		{"order wraps around the table", 1, map[int]int{1: 100, 2: 101}},
		{"dealer seat itself is last", 2, map[int]int{1: 101, 2: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := riverState(tt.dealer, "As Ks Qs Js Ts",
				folded.clone(),
				showdownSeat(1, 100, "2c 3d"),
				showdownSeat(2, 100, "2h 3c"),
			)
			if state.Pot != 201 {
				t.Fatalf("expected pot 201, got %d", state.Pot)
			}

			res, err := ResolveShowdown(state, nil)
			if err != nil {
				t.Fatalf("resolve showdown: %v", err)
			}

			got := map[int]int{}
			for _, a := range res.Awards {
				got[a.Seat] += a.Amount
				if a.HandName != "Royal Flush" {
					t.Errorf("seat %d awarded with %q, want Royal Flush", a.Seat, a.HandName)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("awards by seat (-want +got):\n%s", diff)
			}
			if res.State.Pot != 0 {
				t.Errorf("expected empty pot, got %d", res.State.Pot)
			}
			if !res.State.Complete {
				t.Error("hand should be complete")
			}
		})
	}
}

func TestResolveShowdownSidePots(t *testing.T) {
	t.Parallel()

	short := showdownSeat(0, 20, "Ah Ad")
	short.AllIn = true
	mid := showdownSeat(1, 50, "Kh Kd")
	mid.AllIn = true
	big := showdownSeat(2, 100, "Qh Qd")
	big.AllIn = true
	state := riverState(2, "2c 7s 9d Jc 4h", short, mid, big)

	res, err := ResolveShowdown(state, nil)
	if err != nil {
		t.Fatalf("resolve showdown: %v", err)
	}

	want := []Award{
		{Seat: 0, Amount: 60, PotIndex: 0, HandName: "One Pair"},
		{Seat: 1, Amount: 60, PotIndex: 1, HandName: "One Pair"},
		{Seat: 2, Amount: 50, PotIndex: 2, HandName: "One Pair"},
	}
	if diff := cmp.Diff(want, res.Awards); diff != "" {
		t.Errorf("awards (-want +got):\n%s", diff)
	}

	var stacks []int
	for _, s := range res.State.Seats {
		stacks = append(stacks, s.Stack)
	}
	if want := []int{60, 60, 50}; !slices.Equal(stacks, want) {
		t.Errorf("stacks = %v, want %v", stacks, want)
	}

	var potEvents int
	for _, e := range res.Events {
		if e.Type == EventPotAwarded {
			potEvents++
		}
	}
	if potEvents != 3 {
		t.Errorf("expected 3 pot_awarded events, got %d", potEvents)
	}
	if last := res.Events[len(res.Events)-1].Type; last != EventHandComplete {
		t.Errorf("expected the log to end with hand_complete, got %s", last)
	}
}

func TestResolveShowdownResults(t *testing.T) {
	t.Parallel()

	folder := showdownSeat(0, 40, "Ac Ad")
	folder.Folded = true
	winner := showdownSeat(1, 100, "9h 8h")
	loser := showdownSeat(2, 100, "Kc Kd")
	state := riverState(0, "Th Jh Qh 2s 3d", folder, winner, loser)

	res, err := ResolveShowdown(state, nil)
	if err != nil {
		t.Fatalf("resolve showdown: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.Results))
	}

	bySeat := map[int]SeatResult{}
	sum := 0
	for _, r := range res.Results {
		bySeat[r.Seat] = r
		sum += r.ChipChange
	}
	if sum != 0 {
		t.Errorf("a hand is zero-sum, chip changes add to %d", sum)
	}

	tests := []struct {
		seat     int
		hand     string
		change   int
		winnings int
	}{
		{0, FoldedHandName, -40, 0},
		{1, "Straight Flush", 140, 240},
		{2, "One Pair", -100, 0},
	}
	for _, tt := range tests {
		r := bySeat[tt.seat]
		if r.HandName != tt.hand || r.ChipChange != tt.change || r.Winnings != tt.winnings {
			t.Errorf("seat %d: got %q %+d won %d, want %q %+d won %d",
				tt.seat, r.HandName, r.ChipChange, r.Winnings, tt.hand, tt.change, tt.winnings)
		}
	}
}

func TestResolveShowdownHoleCardsFromMap(t *testing.T) {
	t.Parallel()

	a := showdownSeat(0, 50, "")
	b := showdownSeat(1, 50, "")
	state := riverState(0, "2c 7s 9d Jc 4h", a, b)

	if _, err := ResolveShowdown(state, nil); !errors.Is(err, ErrMissingHoleCards) {
		t.Fatalf("expected ErrMissingHoleCards, got %v", err)
	}

	res, err := ResolveShowdown(state, map[int][]poker.Card{
		0: poker.MustParseCards("3s 3h"),
		1: poker.MustParseCards("Jh Jd"),
	})
	if err != nil {
		t.Fatalf("resolve showdown: %v", err)
	}
	if diff := cmp.Diff([]Award{{Seat: 1, Amount: 100, HandName: "Three of a Kind"}}, res.Awards); diff != "" {
		t.Errorf("awards (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(poker.MustParseCards("3s 3h"), res.Results[0].HoleCards); diff != "" {
		t.Errorf("seat 0 hole cards (-want +got):\n%s", diff)
	}
}

func TestResolveShowdownCompleteHand(t *testing.T) {
	t.Parallel()

	state := riverState(0, "2c 7s 9d Jc 4h", showdownSeat(0, 10, "Ah Ad"), showdownSeat(1, 10, "Kh Kd"))
	state.Complete = true
	if _, err := ResolveShowdown(state, nil); !errors.Is(err, ErrHandComplete) {
		t.Errorf("expected ErrHandComplete, got %v", err)
	}
}

func TestFullHandToShowdown(t *testing.T) {
	t.Parallel()

	// Seat 1 then 2 then 0 are dealt, followed by the board.
	hand := startStacked(t, 0, "Kd Kc 7c 2d As Ah Ad 9s 5c 3h Jd", 1000, 1000, 1000)
	state := act(t, hand.State, 0, Call).State
	state = act(t, state, 1, Call).State
	state = act(t, state, 2, Check).State

	for street := Flop; street <= River; street++ {
		state = nextStreet(t, state, hand.Deck)
		if state.Street != street {
			t.Fatalf("expected %s, got %s", street, state.Street)
		}
		if state.CurrentSeat != 1 {
			t.Fatalf("%s: expected seat 1 first to act, got %d", street, state.CurrentSeat)
		}
		state = act(t, state, 1, Check).State
		state = act(t, state, 2, Check).State
		state = act(t, state, 0, Check).State
		if !IsBettingRoundComplete(state) {
			t.Fatalf("%s: round should be complete after three checks", street)
		}
	}
	if diff := cmp.Diff(hand.FutureBoard, state.Board); diff != "" {
		t.Errorf("board differs from the reserved future board (-want +got):\n%s", diff)
	}

	state = nextStreet(t, state, hand.Deck)
	if state.Street != Showdown {
		t.Fatalf("expected showdown, got %s", state.Street)
	}

	res, err := ResolveShowdown(state, nil)
	if err != nil {
		t.Fatalf("resolve showdown: %v", err)
	}
	if diff := cmp.Diff([]Award{{Seat: 0, Amount: 60, HandName: "Three of a Kind"}}, res.Awards); diff != "" {
		t.Errorf("awards (-want +got):\n%s", diff)
	}
	if res.State.Seats[0].Stack != 1040 {
		t.Errorf("expected seat 0 stack 1040, got %d", res.State.Seats[0].Stack)
	}
	requireChips(t, res.State, 3000)

	if _, err := AdvanceStreet(res.State, hand.Deck); !errors.Is(err, ErrHandComplete) {
		t.Errorf("expected ErrHandComplete, got %v", err)
	}
}
