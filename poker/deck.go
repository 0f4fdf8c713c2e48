package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck represents a standard 52-card deck with a deal cursor.
// A deck backs a single hand and is never reshuffled once dealing starts.
type Deck struct {
	cards [DeckSize]Card
	next  int
}

// NewDeck creates a new deck shuffled with the given RNG.
// A nil RNG falls back to the global math/rand/v2 source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{}

	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.shuffle(rng)
	return d
}

// shuffle performs a Fisher-Yates shuffle and resets the cursor
func (d *Deck) shuffle(rng *rand.Rand) {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// RestoreDeck rebuilds a deck from a persisted order and cursor position.
// The order must contain all 52 distinct cards.
func RestoreDeck(order []Card, cursor int) (*Deck, error) {
	if len(order) != DeckSize {
		return nil, fmt.Errorf("restore deck: need %d cards, got %d", DeckSize, len(order))
	}
	if cursor < 0 || cursor > DeckSize {
		return nil, fmt.Errorf("restore deck: cursor %d out of range", cursor)
	}

	var seen [DeckSize]bool
	d := &Deck{next: cursor}
	for i, c := range order {
		if !c.Valid() {
			return nil, fmt.Errorf("restore deck: %w at position %d", ErrInvalidCard, i)
		}
		if seen[c.index()] {
			return nil, fmt.Errorf("restore deck: duplicate card %s", c)
		}
		seen[c.index()] = true
		d.cards[i] = c
	}
	return d, nil
}

// NewStackedDeck returns an unshuffled deck whose first cards are top, in
// order, followed by the remaining cards in canonical order. Used to set up
// exact deals for tests and replays.
func NewStackedDeck(top ...Card) (*Deck, error) {
	var used [DeckSize]bool
	order := make([]Card, 0, DeckSize)
	for _, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("stacked deck: %w: %v", ErrInvalidCard, c)
		}
		if used[c.index()] {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		used[c.index()] = true
		order = append(order, c)
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if !used[c.index()] {
				order = append(order, c)
			}
		}
	}
	return RestoreDeck(order, 0)
}

// Deal deals n cards from the deck and advances the cursor
func (d *Deck) Deal(n int) ([]Card, error) {
	cards, err := d.Peek(n)
	if err != nil {
		return nil, err
	}
	d.next += n
	return cards, nil
}

// Peek returns the next n cards without advancing the cursor
func (d *Deck) Peek(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("deal %d cards: negative count", n)
	}
	if n > d.Remaining() {
		return nil, fmt.Errorf("deal %d cards with %d remaining: %w", n, d.Remaining(), ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Dealt returns the cursor position, i.e. how many cards have been dealt
func (d *Deck) Dealt() int {
	return d.next
}

// Order returns a copy of the full deck order, dealt cards included
func (d *Deck) Order() []Card {
	order := make([]Card, len(d.cards))
	copy(order, d.cards[:])
	return order
}
