package poker

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCardCount is returned when an evaluation receives the wrong number of cards.
var ErrCardCount = errors.New("wrong number of cards")

// HandCategory enumerates the categories of poker hands ordered from weakest to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the evaluation of a five card hand.
//
// Value packs the category into bits 20-23 and up to five kickers into
// successive 4-bit nibbles below it, so two hands compare by Value alone.
type HandRank struct {
	Category HandCategory
	Kickers  []Rank
	Value    uint32
}

// String returns the category name
func (hr HandRank) String() string {
	return hr.Category.String()
}

// Compare returns 1 if hr beats other, -1 if it loses and 0 on a tie
func (hr HandRank) Compare(other HandRank) int {
	switch {
	case hr.Value > other.Value:
		return 1
	case hr.Value < other.Value:
		return -1
	default:
		return 0
	}
}

func newHandRank(category HandCategory, kickers ...Rank) HandRank {
	value := uint32(category) << 20
	for i, k := range kickers {
		value |= uint32(k) << (16 - 4*i)
	}
	return HandRank{Category: category, Kickers: kickers, Value: value}
}

// Evaluate classifies exactly five cards.
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrCardCount)
	}
	for _, c := range cards {
		if !c.Valid() {
			return HandRank{}, fmt.Errorf("evaluate: %w: %v", ErrInvalidCard, c)
		}
	}
	return evaluate5([5]Card(cards)), nil
}

func evaluate5(cards [5]Card) HandRank {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Group ranks by multiplicity, larger groups first then higher rank.
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b group) int {
		return b.count - a.count
	})

	ranks := make([]Rank, len(groups))
	for i, g := range groups {
		ranks[i] = g.rank
	}

	straightHigh := Rank(0)
	if len(groups) == 5 {
		switch {
		case ranks[0]-ranks[4] == 4:
			straightHigh = ranks[0]
		case ranks[0] == Ace && ranks[1] == Five:
			// wheel: A-2-3-4-5 plays as a five-high straight
			straightHigh = Five
		}
	}

	switch {
	case flush && straightHigh == Ace:
		return newHandRank(RoyalFlush, Ace)
	case flush && straightHigh > 0:
		return newHandRank(StraightFlush, straightHigh)
	case groups[0].count == 4:
		return newHandRank(FourOfAKind, ranks[0], ranks[1])
	case groups[0].count == 3 && groups[1].count == 2:
		return newHandRank(FullHouse, ranks[0], ranks[1])
	case flush:
		return newHandRank(Flush, ranks...)
	case straightHigh > 0:
		return newHandRank(Straight, straightHigh)
	case groups[0].count == 3:
		return newHandRank(ThreeOfAKind, ranks...)
	case groups[0].count == 2 && groups[1].count == 2:
		return newHandRank(TwoPair, ranks...)
	case groups[0].count == 2:
		return newHandRank(OnePair, ranks...)
	default:
		return newHandRank(HighCard, ranks...)
	}
}

// FindBestHand evaluates every five card combination of the hole and
// community cards (5 to 7 cards in total) and returns the best one.
func FindBestHand(holeCards, communityCards []Card) (HandRank, []Card, error) {
	all := make([]Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)

	if len(all) < 5 || len(all) > 7 {
		return HandRank{}, nil, fmt.Errorf("find best hand from %d cards: %w", len(all), ErrCardCount)
	}
	for _, c := range all {
		if !c.Valid() {
			return HandRank{}, nil, fmt.Errorf("find best hand: %w: %v", ErrInvalidCard, c)
		}
	}

	var (
		best     HandRank
		bestHand [5]Card
		found    bool
		combo    [5]Card
	)
	n := len(all)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo = [5]Card{all[a], all[b], all[c], all[d], all[e]}
						rank := evaluate5(combo)
						if !found || rank.Value > best.Value {
							best, bestHand, found = rank, combo, true
						}
					}
				}
			}
		}
	}

	return best, bestHand[:], nil
}

// CompareHands evaluates two five card hands and returns 1 if a wins,
// -1 if b wins and 0 on a tie.
func CompareHands(a, b []Card) (int, error) {
	ra, err := Evaluate(a)
	if err != nil {
		return 0, err
	}
	rb, err := Evaluate(b)
	if err != nil {
		return 0, err
	}
	return ra.Compare(rb), nil
}

// Contender is a player competing at showdown
type Contender struct {
	Seat      int
	HoleCards []Card
}

// Showing is a contender's evaluated best hand
type Showing struct {
	Seat     int
	Rank     HandRank
	BestHand []Card
}

// DetermineWinners evaluates every contender and returns all of those
// holding the maximum hand, in the order they were given.
func DetermineWinners(contenders []Contender, communityCards []Card) ([]Showing, error) {
	if len(contenders) == 0 {
		return nil, nil
	}

	showings := make([]Showing, 0, len(contenders))
	var best uint32
	for _, c := range contenders {
		rank, hand, err := FindBestHand(c.HoleCards, communityCards)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", c.Seat, err)
		}
		showings = append(showings, Showing{Seat: c.Seat, Rank: rank, BestHand: hand})
		best = max(best, rank.Value)
	}

	var winners []Showing
	for _, s := range showings {
		if s.Rank.Value == best {
			winners = append(winners, s)
		}
	}
	return winners, nil
}
