package poker

import (
	"errors"
	"slices"
	"testing"

	oracle "github.com/chehsunliu/poker"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lox/holdemcore/internal/randutil"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		category HandCategory
		kickers  []Rank
	}{
		{"royal flush", "As Ks Qs Js Ts", RoyalFlush, []Rank{Ace}},
		{"straight flush", "9h 8h 7h 6h 5h", StraightFlush, []Rank{Nine}},
		{"steel wheel", "5d 4d 3d 2d Ad", StraightFlush, []Rank{Five}},
		{"four of a kind", "Qc Qd Qh Qs 3c", FourOfAKind, []Rank{Queen, Three}},
		{"full house", "Jc Jd Jh 4s 4c", FullHouse, []Rank{Jack, Four}},
		{"flush", "Kc 9c 7c 4c 2c", Flush, []Rank{King, Nine, Seven, Four, Two}},
		{"straight", "Tc 9d 8h 7s 6c", Straight, []Rank{Ten}},
		{"wheel", "Ac 2d 3h 4s 5c", Straight, []Rank{Five}},
		{"broadway", "Ac Kd Qh Js Tc", Straight, []Rank{Ace}},
		{"three of a kind", "7c 7d 7h Ks 2c", ThreeOfAKind, []Rank{Seven, King, Two}},
		{"two pair", "9c 9d 4h 4s Ac", TwoPair, []Rank{Nine, Four, Ace}},
		{"one pair", "Tc Td Ah 8s 3c", OnePair, []Rank{Ten, Ace, Eight, Three}},
		{"high card", "Ac Jd 8h 6s 2c", HighCard, []Rank{Ace, Jack, Eight, Six, Two}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := Evaluate(MustParseCards(tt.cards))
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if rank.Category != tt.category {
				t.Errorf("category = %s, want %s", rank.Category, tt.category)
			}
			if !slices.Equal(rank.Kickers, tt.kickers) {
				t.Errorf("kickers = %v, want %v", rank.Kickers, tt.kickers)
			}
		})
	}
}

func TestCategoryOrderingIgnoresKickers(t *testing.T) {
	t.Parallel()

	// Weakest example of each category, strongest example of the one below.
	ladder := []string{
		"Ac Kd Qh Js 9c", // best high card
		"2c 2d 3h 4s 5d", // worst pair beats it
		"Ac Ad Kh Ks Qc", // best two pair
		"2c 2d 2h 3s 4c", // worst trips
		"Ac Ad Ah Ks Qc", // best trips
		"Ac 2d 3h 4s 5c", // wheel
		"Ac Kd Qh Js Tc", // broadway
		"2c 3c 4c 5c 7c", // worst flush
		"Ac Kc Qc Jc 9c", // best flush
		"2c 2d 2h 3s 3c", // worst full house
		"Ac Ad Ah Ks Kc", // best full house
		"2c 2d 2h 2s 3c", // worst quads
		"Ac Ad Ah As Kc", // best quads
		"Ac 2c 3c 4c 5c", // steel wheel
		"9c Kc Qc Jc Tc", // king-high straight flush
		"Ac Kc Qc Jc Tc", // royal
	}

	var prev HandRank
	for i, hand := range ladder {
		rank, err := Evaluate(MustParseCards(hand))
		if err != nil {
			t.Fatalf("evaluate %s: %v", hand, err)
		}
		if i > 0 && rank.Value <= prev.Value {
			t.Errorf("%s (%s) should beat %s", hand, rank, ladder[i-1])
		}
		prev = rank
	}
}

func TestEvaluateRejectsWrongCount(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(MustParseCards("As Ks Qs Js")); !errors.Is(err, ErrCardCount) {
		t.Errorf("four cards: expected ErrCardCount, got %v", err)
	}
	if _, _, err := FindBestHand(MustParseCards("As Ks"), MustParseCards("Qs Js")); !errors.Is(err, ErrCardCount) {
		t.Errorf("two board cards: expected ErrCardCount, got %v", err)
	}
	if _, _, err := FindBestHand(MustParseCards("As Ks"), MustParseCards("Qs Js Ts 9s 8s 7s")); !errors.Is(err, ErrCardCount) {
		t.Errorf("six board cards: expected ErrCardCount, got %v", err)
	}
}

func TestFindBestHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hole     string
		board    string
		category HandCategory
		best     string
	}{
		{"board plays", "2c 3d", "As Ks Qs Js Ts", RoyalFlush, "As Ks Qs Js Ts"},
		{"flush over straight", "Ah 2h", "3h 4c 5h 9h Kd", Flush, "Ah 2h 3h 5h 9h"},
		{"wheel from seven", "Ac 2d", "3h 4s 5c Kd Kh", Straight, "Ac 2d 3h 4s 5c"},
		{"six card straight picks top", "6c 7d", "3h 4s 5c 8d Kh", Straight, "6c 7d 4s 5c 8d"},
		{"full house over two trips", "9c 9d", "9h 4s 4c 4d Kh", FullHouse, "9c 9d 9h 4s 4c"},
	}

	byCard := cmpopts.SortSlices(func(a, b Card) bool { return a.index() < b.index() })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, best, err := FindBestHand(MustParseCards(tt.hole), MustParseCards(tt.board))
			if err != nil {
				t.Fatalf("find best hand: %v", err)
			}
			if rank.Category != tt.category {
				t.Errorf("category = %s, want %s", rank.Category, tt.category)
			}
			if diff := cmp.Diff(MustParseCards(tt.best), best, byCard); diff != "" {
				t.Errorf("best five (-want +got):\n%s", diff)
			}

			again, err := Evaluate(best)
			if err != nil {
				t.Fatalf("evaluate best five: %v", err)
			}
			if again.Value != rank.Value {
				t.Errorf("best five evaluates to %d, reported %d", again.Value, rank.Value)
			}
		})
	}
}

func TestCompareHands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"pair of aces with 3 kicker wins", "Ac Ad Kh Qs 2c", "Ah As Kd Qc 3d", -1},
		{"suits never break ties", "Ac Kd Qh Js 9c", "Ad Kh Qs Jc 9d", 0},
		{"six-high straight beats the wheel", "2c 3d 4h 5s 6c", "Ac 2d 3h 4s 5c", 1},
	}
	for _, tt := range tests {
		got, err := CompareHands(MustParseCards(tt.a), MustParseCards(tt.b))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestDetermineWinners(t *testing.T) {
	t.Parallel()

	board := MustParseCards("Ah Kd 7c 7s 2h")
	contenders := []Contender{
		{Seat: 1, HoleCards: MustParseCards("Ac 3d")}, // aces up, king kicker
		{Seat: 4, HoleCards: MustParseCards("As 4d")}, // same
		{Seat: 6, HoleCards: MustParseCards("Kc Ks")}, // kings full
	}

	winners, err := DetermineWinners(contenders, board)
	if err != nil {
		t.Fatalf("determine winners: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("expected 1 winner, got %d", len(winners))
	}
	if winners[0].Seat != 6 || winners[0].Rank.Category != FullHouse {
		t.Errorf("winner seat %d with %s, want seat 6 with a full house", winners[0].Seat, winners[0].Rank)
	}

	winners, err = DetermineWinners(contenders[:2], board)
	if err != nil {
		t.Fatalf("determine winners: %v", err)
	}
	if len(winners) != 2 {
		t.Fatalf("identical two pair must tie, got %d winners", len(winners))
	}
	if winners[0].Seat != 1 || winners[1].Seat != 4 {
		t.Errorf("winners %d, %d; want 1, 4 in contender order", winners[0].Seat, winners[1].Seat)
	}
}

// TestAgreesWithReferenceEvaluator checks random seven card pairs against an
// independent evaluator. Lower oracle values are stronger.
func TestAgreesWithReferenceEvaluator(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	toOracle := func(cards []Card) []oracle.Card {
		out := make([]oracle.Card, len(cards))
		for i, c := range cards {
			out[i] = oracle.NewCard(c.String())
		}
		return out
	}

	for i := 0; i < 2000; i++ {
		d := NewDeck(rng)
		cards, err := d.Deal(9)
		if err != nil {
			t.Fatalf("deal: %v", err)
		}
		board, a, b := cards[:5], cards[5:7], cards[7:9]

		ra, _, err := FindBestHand(a, board)
		if err != nil {
			t.Fatalf("find best hand: %v", err)
		}
		rb, _, err := FindBestHand(b, board)
		if err != nil {
			t.Fatalf("find best hand: %v", err)
		}

		oa := oracle.Evaluate(toOracle(append(slices.Clone(a), board...)))
		ob := oracle.Evaluate(toOracle(append(slices.Clone(b), board...)))

		want := 0
		switch {
		case oa < ob:
			want = 1
		case oa > ob:
			want = -1
		}
		if got := ra.Compare(rb); got != want {
			t.Fatalf("board %s: %s (%s) vs %s (%s): got %d, want %d",
				FormatCards(board), FormatCards(a), ra, FormatCards(b), rb, got, want)
		}
	}
}
