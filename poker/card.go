package poker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when a card token cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const suitChars = "cdhs"

// String returns the single-character token for the suit ("c", "d", "h", "s")
func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// Name returns the long name of the suit
func (s Suit) Name() string {
	return [...]string{"clubs", "diamonds", "hearts", "spades"}[s&3]
}

// Rank represents a card rank, 2 through 14 (ace high)
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single-character token for the rank ("2".."9", "T", "J", "Q", "K", "A")
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card is an immutable rank and suit pair
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character token, e.g. "As" or "Td"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Valid reports whether the card is one of the 52 standard cards
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}

// index returns a dense 0-51 index for the card
func (c Card) index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// MarshalText encodes the card as its token so cards serialise as "As" in JSON.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card token.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a token like "As", "Td" or "10h"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	r := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if r < 0 {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}
	su := strings.IndexByte(suitChars, strings.ToLower(s[1:])[0])
	if su < 0 {
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}

	return Card{Rank: Two + Rank(r), Suit: Suit(su)}, nil
}

// ParseCards parses either whitespace separated tokens ("As Kd") or a
// concatenated run ("AsKd7c").
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	if len(fields) == 1 && len(fields[0]) > 3 {
		run := fields[0]
		if len(run)%2 != 0 {
			return nil, fmt.Errorf("%w: odd length card run %q", ErrInvalidCard, run)
		}
		fields = fields[:0]
		for i := 0; i < len(run); i += 2 {
			fields = append(fields, run[i:i+2])
		}
	}

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error. Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards as space separated tokens
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
