package table

import (
	"fmt"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/internal/game"
	"github.com/lox/holdemcore/poker"
)

// StartHand moves the button and deals a new hand, returning its ID
func (t *Table) StartHand() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != nil {
		return "", ErrHandInProgress
	}

	dealer := t.nextDealerLocked()
	if dealer == game.NoSeat {
		return "", game.ErrNotEnoughPlayers
	}

	setup := game.HandSetup{
		Config: game.HandConfig{
			DealerSeat: dealer,
			SmallBlind: t.cfg.SmallBlind,
			BigBlind:   t.cfg.BigBlind,
			MaxSeats:   t.cfg.MaxSeats,
		},
	}
	for _, p := range t.players {
		if p == nil || p.Leaving {
			continue
		}
		setup.Seats = append(setup.Seats, game.PlayerSeat{
			Number:     p.Seat,
			PlayerID:   p.ID,
			Name:       p.Name,
			Stack:      p.Stack,
			SittingOut: p.SittingOut,
		})
	}

	deck := poker.NewDeck(t.rng)
	order := deck.Order()
	start, err := game.StartHandWithDeck(deck, setup.Seats, setup.Config)
	if err != nil {
		return "", err
	}

	t.dealer = dealer
	t.hand = &hand{
		id:        t.ids.Generate(),
		state:     start.State,
		deck:      start.Deck,
		setup:     setup,
		deckOrder: order,
	}
	t.logger.Debug("Hand started",
		"hand", t.hand.id,
		"dealer", dealer,
		"players", start.State.InHandCount())
	t.publishLocked(start.Events)

	return t.hand.id, t.progressLocked()
}

// Act applies an action for playerID. Rejected actions return a
// *game.RejectionError and leave the table unchanged.
func (t *Table) Act(playerID string, req game.ActionRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand == nil {
		return ErrNoHandInProgress
	}
	p := t.findLocked(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if err := t.applyLocked(p.Seat, req); err != nil {
		return err
	}
	return t.progressLocked()
}

func (t *Table) applyLocked(seat int, req game.ActionRequest) error {
	h := t.hand
	res, err := game.ApplyAction(h.state, seat, req)
	if err != nil {
		return err
	}
	t.stopTimerLocked()
	h.state = res.State
	h.seq++
	h.actions = append(h.actions, game.ActionRecord{Seat: seat, Request: req})
	if res.HandComplete {
		h.final = res.State
		h.awards, h.results = res.Awards, res.Results
	}
	t.publishLocked(res.Events)
	return nil
}

// progressLocked moves the hand forward until a player has to decide or the
// hand is settled: leaving players are folded, streets are dealt and the
// showdown resolved.
func (t *Table) progressLocked() error {
	for t.hand != nil {
		h := t.hand
		state := h.state

		switch {
		case state.Complete:
			t.settleLocked()
			return nil

		case state.Street == game.Showdown:
			sd, err := game.ResolveShowdown(state, nil)
			if err != nil {
				return fmt.Errorf("hand %s: %w", h.id, err)
			}
			h.final = state
			h.state = sd.State
			h.awards, h.results = sd.Awards, sd.Results
			t.publishLocked(sd.Events)
			t.settleLocked()
			return nil

		case game.IsBettingRoundComplete(state):
			res, err := game.AdvanceStreet(state, h.deck)
			if err != nil {
				return fmt.Errorf("hand %s: %w", h.id, err)
			}
			h.state = res.State
			t.publishLocked(res.Events)

		default:
			p := t.players[state.CurrentSeat]
			if p == nil || p.Leaving || p.ID != state.Seats[state.CurrentSeat].PlayerID {
				if err := t.applyLocked(state.CurrentSeat, game.ActionRequest{Kind: game.Fold}); err != nil {
					return err
				}
				continue
			}
			t.armTimerLocked()
			return nil
		}
	}
	return nil
}

// settleLocked books the finished hand back onto the players
func (t *Table) settleLocked() {
	h := t.hand
	summary := &HandSummary{
		ID:        h.id,
		Setup:     h.setup,
		DeckOrder: h.deckOrder,
		Actions:   h.actions,
		Final:     h.final,
		Board:     h.state.Board,
		Awards:    h.awards,
		Results:   h.results,
		Showdown:  h.final.Street == game.Showdown && !h.final.Complete,
		Timeouts:  h.timeouts,
		Events:    h.events,
	}

	for _, s := range h.state.Seats {
		if s == nil {
			continue
		}
		if p := t.players[s.Number]; p != nil && p.ID == s.PlayerID {
			p.Stack = s.Stack
		}
	}
	t.stopTimerLocked()
	t.hand = nil
	t.last = summary
	t.played++

	for _, p := range t.players {
		if p != nil && p.Leaving {
			t.removeLocked(p)
		}
	}

	t.logger.Debug("Hand complete",
		"hand", summary.ID,
		"showdown", summary.Showdown,
		"awards", len(summary.Awards))
}

// nextDealerLocked finds the next seat that will be dealt in, clockwise from
// the previous button
func (t *Table) nextDealerLocked() int {
	n := len(t.players)
	participants := 0
	for _, p := range t.players {
		if t.dealtIn(p) {
			participants++
		}
	}
	if participants < 2 {
		return game.NoSeat
	}
	for i := 1; i <= n; i++ {
		seat := ((t.dealer+i)%n + n) % n
		if t.dealtIn(t.players[seat]) {
			return seat
		}
	}
	return game.NoSeat
}

func (t *Table) dealtIn(p *Player) bool {
	return p != nil && !p.SittingOut && !p.Leaving && p.Stack > 0
}

func (t *Table) armTimerLocked() {
	if t.cfg.TurnTimeout <= 0 {
		return
	}
	t.stopTimerLocked()
	h := t.hand
	seat, seq := h.state.CurrentSeat, h.seq
	h.timer = t.clock.AfterFunc(t.cfg.TurnTimeout, func() {
		t.timeout(h, seat, seq)
	})
}

func (t *Table) stopTimerLocked() {
	if t.hand != nil && t.hand.timer != nil {
		t.hand.timer.Stop()
		t.hand.timer = nil
	}
}

// timeout acts on behalf of a seat whose clock ran out. Stale timers (the
// seat already acted, or the hand moved on) do nothing.
func (t *Table) timeout(h *hand, seat, seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != h || h.seq != seq || h.state.CurrentSeat != seat {
		return
	}

	req := game.ActionRequest{Kind: game.Fold}
	if t.cfg.TimeoutAction == config.TimeoutCheckOrFold &&
		game.ValidateAction(h.state, seat, game.ActionRequest{Kind: game.Check}).Valid {
		req.Kind = game.Check
	}

	t.logger.Warn("Turn timed out", "hand", h.id, "seat", seat, "action", req.Kind)
	h.timeouts++
	if err := t.applyLocked(seat, req); err != nil {
		t.logger.Error("Timeout action rejected", "seat", seat, "error", err)
		return
	}
	if err := t.progressLocked(); err != nil {
		t.logger.Error("Failed to continue hand after timeout", "error", err)
	}
}
