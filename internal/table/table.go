// Package table drives the game engine for one table: it owns the mutable
// per-table record, serialises every engine call behind a mutex, keeps the
// hand's deck, deals streets as betting rounds close, settles showdowns and
// rotates the button between hands.
package table

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/internal/game"
	"github.com/lox/holdemcore/internal/handid"
	"github.com/lox/holdemcore/poker"
)

var (
	ErrSeatTaken        = errors.New("seat is taken")
	ErrSeatOutOfRange   = errors.New("seat out of range")
	ErrAlreadySeated    = errors.New("player is already seated")
	ErrUnknownPlayer    = errors.New("player is not seated")
	ErrInvalidStack     = errors.New("stack must be positive")
	ErrHandInProgress   = errors.New("a hand is in progress")
	ErrNoHandInProgress = errors.New("no hand in progress")
)

// Player is a seated player as the table sees it between hands
type Player struct {
	ID         string
	Name       string
	Seat       int
	Stack      int
	SittingOut bool
	Leaving    bool
}

// HandSummary describes a finished hand
type HandSummary struct {
	ID        string
	Setup     game.HandSetup
	DeckOrder []poker.Card
	Actions   []game.ActionRecord
	// Final is the state the hand was settled from: the fold-out state, or
	// the showdown state before pots were paid.
	Final    *game.GameState
	Board    []poker.Card
	Awards   []game.Award
	Results  []game.SeatResult
	Showdown bool
	Timeouts int
	Events   []game.Event
}

type hand struct {
	id        string
	state     *game.GameState
	deck      *poker.Deck
	setup     game.HandSetup
	deckOrder []poker.Card
	actions   []game.ActionRecord
	timer     *quartz.Timer
	seq       int
	timeouts  int
	events    []game.Event

	final   *game.GameState
	awards  []game.Award
	results []game.SeatResult
}

// Table is a single poker table. All methods are safe for concurrent use.
type Table struct {
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger
	sink   Sink
	rng    *rand.Rand
	ids    *handid.Generator

	mu      sync.Mutex
	players []*Player
	dealer  int
	hand    *hand
	last    *HandSummary
	played  int
}

// New creates a table
func New(cfg Config, opts ...Option) (*Table, error) {
	if cfg.MaxSeats < 2 {
		return nil, fmt.Errorf("table %s: need at least 2 seats", cfg.ID)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, fmt.Errorf("table %s: %w", cfg.ID, game.ErrInvalidBlinds)
	}
	if cfg.TimeoutAction == "" {
		cfg.TimeoutAction = config.TimeoutCheckOrFold
	}

	t := &Table{
		cfg:     cfg,
		players: make([]*Player, cfg.MaxSeats),
		dealer:  game.NoSeat,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.logger == nil {
		t.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if t.sink == nil {
		t.sink = discardSink{}
	}
	if t.ids == nil {
		t.ids = handid.NewGenerator(t.clock, nil)
	}
	t.logger = t.logger.WithPrefix("table").With("table", cfg.ID)
	return t, nil
}

// ID returns the table ID
func (t *Table) ID() string {
	return t.cfg.ID
}

// Sit seats a player. Players may sit while a hand is running; they are
// dealt in from the next hand.
func (t *Table) Sit(playerID, name string, seat, stack int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case seat < 0 || seat >= len(t.players):
		return fmt.Errorf("%w: %d", ErrSeatOutOfRange, seat)
	case t.players[seat] != nil:
		return fmt.Errorf("%w: %d", ErrSeatTaken, seat)
	case t.findLocked(playerID) != nil:
		return fmt.Errorf("%w: %s", ErrAlreadySeated, playerID)
	case stack <= 0:
		return ErrInvalidStack
	}

	t.players[seat] = &Player{ID: playerID, Name: name, Seat: seat, Stack: stack}
	t.logger.Info("Player sat down", "player", name, "seat", seat, "stack", stack)
	return nil
}

// Leave removes a player. A player still contesting the current hand is
// folded when their turn comes and removed once the hand is over.
func (t *Table) Leave(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.findLocked(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if !t.contestingLocked(p) {
		t.removeLocked(p)
		return nil
	}

	p.Leaving = true
	t.logger.Info("Player leaving after this hand", "player", p.Name, "seat", p.Seat)
	if t.hand.state.CurrentSeat == p.Seat {
		t.stopTimerLocked()
		return t.progressLocked()
	}
	return nil
}

// SitOut toggles whether a player is dealt into future hands
func (t *Table) SitOut(playerID string, out bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.findLocked(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	p.SittingOut = out
	t.logger.Debug("Sitting out changed", "player", p.Name, "sitting_out", out)
	return nil
}

// Players returns a copy of the seated players in seat order
func (t *Table) Players() []Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Player
	for _, p := range t.players {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// InHand reports whether a hand is in progress
func (t *Table) InHand() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hand != nil
}

// HandsPlayed returns the number of completed hands
func (t *Table) HandsPlayed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.played
}

// Dealer returns the current button seat, or game.NoSeat before the first hand
func (t *Table) Dealer() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dealer
}

// View returns the current hand state as playerID may see it. An unknown
// player gets the spectator view.
func (t *Table) View(playerID string) (*game.GameState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand == nil {
		return nil, ErrNoHandInProgress
	}
	seat := game.NoSeat
	if p := t.findLocked(playerID); p != nil {
		seat = p.Seat
	}
	return t.hand.state.ViewFor(seat), nil
}

// ToAct returns the player whose turn it is
func (t *Table) ToAct() (Player, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand == nil || t.hand.state.CurrentSeat == game.NoSeat {
		return Player{}, false
	}
	p := t.players[t.hand.state.CurrentSeat]
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// LastHand returns the summary of the most recently completed hand
func (t *Table) LastHand() *HandSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Table) findLocked(playerID string) *Player {
	for _, p := range t.players {
		if p != nil && p.ID == playerID {
			return p
		}
	}
	return nil
}

// contestingLocked reports whether p still has a claim on the current pot
func (t *Table) contestingLocked(p *Player) bool {
	if t.hand == nil {
		return false
	}
	s := t.hand.state.Seat(p.Seat)
	return s != nil && s.PlayerID == p.ID && s.Active && !s.Folded
}

func (t *Table) removeLocked(p *Player) {
	if t.hand != nil {
		// A folded player walks away with what is left in front of them.
		if s := t.hand.state.Seat(p.Seat); s != nil && s.PlayerID == p.ID && s.Active {
			p.Stack = s.Stack
		}
	}
	t.players[p.Seat] = nil
	t.logger.Info("Player left", "player", p.Name, "seat", p.Seat, "stack", p.Stack)
}

func (t *Table) publishLocked(events []game.Event) {
	if len(events) == 0 {
		return
	}
	handID := ""
	if t.hand != nil {
		handID = t.hand.id
		t.hand.events = append(t.hand.events, events...)
	}
	t.sink.Publish(t.cfg.ID, handID, events)
}
