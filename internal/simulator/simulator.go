// Package simulator soaks the engine: it plays many tables concurrently with
// players that pick uniformly among the legal actions, and checks after every
// hand that chips were conserved, the pots add up, no card was dealt twice
// and the hand replays to the same state from its history.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/internal/game"
	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/internal/table"
	"github.com/lox/holdemcore/poker"
)

// Config holds simulation configuration
type Config struct {
	Hands         int // total hands, shared across tables
	Tables        int
	Players       int // players seated at each table
	StartingStack int
	SmallBlind    int
	BigBlind      int
	Seed          int64
	// DepartureRate is the chance a player walks away instead of acting.
	// They are folded by the table and buy back in for the next hand.
	DepartureRate float64
	// OnHand, if set, is called with every hand that passed its checks.
	// Tables call it concurrently.
	OnHand func(tableID string, h *table.HandSummary) error
	Logger *log.Logger
}

// FromConfig builds a simulation from the soak block and the blinds of the
// given table
func FromConfig(soak *config.SoakConfig, tc config.TableConfig) Config {
	return Config{
		Hands:         soak.Hands,
		Tables:        soak.Tables,
		Players:       min(soak.Players, tc.MaxSeats),
		StartingStack: soak.StartingStack,
		SmallBlind:    tc.SmallBlind,
		BigBlind:      tc.BigBlind,
		Seed:          soak.Seed,
	}
}

// Stats aggregates what the soak observed
type Stats struct {
	Hands        int
	Showdowns    int
	FoldOuts     int
	SidePotHands int
	SplitPots    int
	AllIns       int
	Departures   int
	Actions      int
	BiggestPot   int
	Elapsed      time.Duration
}

func (s *Stats) add(o Stats) {
	s.Hands += o.Hands
	s.Showdowns += o.Showdowns
	s.FoldOuts += o.FoldOuts
	s.SidePotHands += o.SidePotHands
	s.SplitPots += o.SplitPots
	s.AllIns += o.AllIns
	s.Departures += o.Departures
	s.Actions += o.Actions
	s.BiggestPot = max(s.BiggestPot, o.BiggestPot)
}

// Violation is a broken invariant, with what is needed to reproduce it
type Violation struct {
	Table  string
	Hand   string
	Seed   int64
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("table %s hand %s (seed %d): %s", v.Table, v.Hand, v.Seed, v.Reason)
}

// Simulator runs soak simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator
func New(cfg Config) *Simulator {
	if cfg.Tables <= 0 {
		cfg.Tables = 1
	}
	if cfg.Players < 2 {
		cfg.Players = 2
	}
	if cfg.SmallBlind <= 0 {
		cfg.SmallBlind = 1
	}
	if cfg.BigBlind < cfg.SmallBlind {
		cfg.BigBlind = 2 * cfg.SmallBlind
	}
	if cfg.StartingStack <= 0 {
		cfg.StartingStack = 100 * cfg.BigBlind
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: cfg, logger: logger.WithPrefix("soak")}
}

// Run plays the configured number of hands and returns the aggregate stats.
// The first violation stops every table.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	started := time.Now()
	perTable := s.config.Hands / s.config.Tables
	remainder := s.config.Hands % s.config.Tables

	s.logger.Info("Starting soak",
		"hands", s.config.Hands,
		"tables", s.config.Tables,
		"players", s.config.Players,
		"seed", s.config.Seed)

	var (
		mu    sync.Mutex
		total Stats
	)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.config.Tables; i++ {
		hands := perTable
		if i < remainder {
			hands++
		}
		seed := randutil.Derive(s.config.Seed, i)

		g.Go(func() error {
			r, err := s.newRunner(fmt.Sprintf("soak-%d", i), seed)
			if err != nil {
				return err
			}
			stats, err := r.run(ctx, hands)
			mu.Lock()
			total.add(stats)
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	total.Elapsed = time.Since(started)
	if err != nil {
		return &total, err
	}
	s.logger.Info("Soak complete", "hands", total.Hands, "elapsed", total.Elapsed)
	return &total, nil
}

// runner drives one table
type runner struct {
	cfg    Config
	tbl    *table.Table
	rng    *rand.Rand
	seed   int64
	logger *log.Logger

	// chips is what the seated players should hold between hands
	chips int
	stats Stats
}

func (s *Simulator) newRunner(id string, seed int64) (*runner, error) {
	logger := s.logger.With("table", id)
	tbl, err := table.New(table.Config{
		ID:         id,
		MaxSeats:   s.config.Players,
		SmallBlind: s.config.SmallBlind,
		BigBlind:   s.config.BigBlind,
	},
		table.WithLogger(logger),
		table.WithRand(randutil.New(seed)),
	)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:    s.config,
		tbl:    tbl,
		rng:    randutil.New(randutil.Derive(seed, 0)),
		seed:   seed,
		logger: logger,
	}
	for seat := 0; seat < s.config.Players; seat++ {
		if err := r.buyIn(seat); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *runner) buyIn(seat int) error {
	id := fmt.Sprintf("p%d", seat)
	if err := r.tbl.Sit(id, fmt.Sprintf("Player %d", seat), seat, r.cfg.StartingStack); err != nil {
		return err
	}
	r.chips += r.cfg.StartingStack
	return nil
}

func (r *runner) run(ctx context.Context, hands int) (Stats, error) {
	for range hands {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}
		if err := r.playHand(); err != nil {
			return r.stats, err
		}
		if err := r.restock(); err != nil {
			return r.stats, err
		}
	}
	return r.stats, nil
}

func (r *runner) playHand() error {
	handID, err := r.tbl.StartHand()
	if err != nil {
		return fmt.Errorf("table %s: start hand: %w", r.tbl.ID(), err)
	}

	for r.tbl.InHand() {
		p, ok := r.tbl.ToAct()
		if !ok {
			return r.violation(handID, "hand in progress with nobody to act")
		}
		view, err := r.tbl.View(p.ID)
		if err != nil {
			return err
		}
		if err := checkPots(view); err != nil {
			return r.violation(handID, err.Error())
		}

		if r.cfg.DepartureRate > 0 && r.rng.Float64() < r.cfg.DepartureRate {
			r.stats.Departures++
			if err := r.tbl.Leave(p.ID); err != nil {
				return err
			}
			continue
		}

		req, err := r.choose(view, p.Seat)
		if err != nil {
			return r.violation(handID, err.Error())
		}
		if req.Kind == game.AllIn {
			r.stats.AllIns++
		}
		r.stats.Actions++
		if err := r.tbl.Act(p.ID, req); err != nil {
			return r.violation(handID, fmt.Sprintf("legal action %s %d rejected: %v", req.Kind, req.Amount, err))
		}
	}

	summary := r.tbl.LastHand()
	if summary == nil || summary.ID != handID {
		return r.violation(handID, "finished hand has no summary")
	}
	if err := r.check(summary); err != nil {
		return r.violation(handID, err.Error())
	}
	r.record(summary)
	if r.cfg.OnHand != nil {
		if err := r.cfg.OnHand(r.tbl.ID(), summary); err != nil {
			return fmt.Errorf("table %s hand %s: %w", r.tbl.ID(), handID, err)
		}
	}
	return nil
}

// choose picks uniformly among the legal actions, and uniformly among the
// legal amounts for bets and raises
func (r *runner) choose(view *game.GameState, seat int) (game.ActionRequest, error) {
	legal := game.LegalActions(view, seat)
	if len(legal) == 0 {
		return game.ActionRequest{}, fmt.Errorf("seat %d to act has no legal actions", seat)
	}
	a := legal[r.rng.IntN(len(legal))]
	req := game.ActionRequest{Kind: a.Kind}
	if a.Kind == game.Bet || a.Kind == game.Raise {
		req.Amount = a.MinAmount
		if a.MaxAmount > a.MinAmount {
			req.Amount += r.rng.IntN(a.MaxAmount - a.MinAmount + 1)
		}
	}
	return req, nil
}

// check verifies a finished hand
func (r *runner) check(h *table.HandSummary) error {
	net := 0
	for _, res := range h.Results {
		net += res.ChipChange
	}
	if net != 0 {
		return fmt.Errorf("chip changes sum to %d", net)
	}

	// A fold-out has already paid the pot; the commitments remain.
	awarded := 0
	for _, a := range h.Awards {
		awarded += a.Amount
	}
	if pot := committed(h.Final); awarded != pot {
		return fmt.Errorf("awarded %d from a pot of %d", awarded, pot)
	}
	if !h.Final.Complete {
		if err := checkPots(h.Final); err != nil {
			return err
		}
	}
	if err := checkCards(h.Final, h.Board); err != nil {
		return err
	}

	replayed, _, err := game.ReplayHand(h.Setup, h.DeckOrder, h.Actions)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if diff := cmp.Diff(h.Final, replayed, cmpopts.EquateEmpty()); diff != "" {
		return fmt.Errorf("replay diverged (-played +replayed):\n%s", diff)
	}

	// Chips only leave the table with departing players.
	held := 0
	for _, p := range r.tbl.Players() {
		held += p.Stack
	}
	for _, res := range h.Results {
		if !r.seated(res.PlayerID, res.Seat) {
			r.chips -= startingStack(h.Setup, res.Seat) + res.ChipChange
		}
	}
	if held != r.chips {
		return fmt.Errorf("players hold %d chips, expected %d", held, r.chips)
	}
	return nil
}

func (r *runner) seated(playerID string, seat int) bool {
	for _, p := range r.tbl.Players() {
		if p.ID == playerID && p.Seat == seat {
			return true
		}
	}
	return false
}

func startingStack(setup game.HandSetup, seat int) int {
	for _, s := range setup.Seats {
		if s.Number == seat {
			return s.Stack
		}
	}
	return 0
}

func (r *runner) record(h *table.HandSummary) {
	r.stats.Hands++
	if h.Showdown {
		r.stats.Showdowns++
	} else {
		r.stats.FoldOuts++
	}
	if len(game.CalculatePots(h.Final.Seats)) > 1 {
		r.stats.SidePotHands++
	}
	winners := make(map[int]int)
	for _, a := range h.Awards {
		winners[a.PotIndex]++
	}
	for _, n := range winners {
		if n > 1 {
			r.stats.SplitPots++
		}
	}
	r.stats.BiggestPot = max(r.stats.BiggestPot, committed(h.Final))

	r.logger.Debug("Hand checked",
		"hand", h.ID,
		"showdown", h.Showdown,
		"pot", committed(h.Final),
		"actions", len(h.Actions))
}

// restock buys busted and departed players back in so every table keeps
// its full complement
func (r *runner) restock() error {
	seated := make(map[int]table.Player)
	for _, p := range r.tbl.Players() {
		seated[p.Seat] = p
	}
	for seat := 0; seat < r.cfg.Players; seat++ {
		p, ok := seated[seat]
		if ok && p.Stack > 0 {
			continue
		}
		if ok {
			if err := r.tbl.Leave(p.ID); err != nil {
				return err
			}
		}
		if err := r.buyIn(seat); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) violation(handID, reason string) error {
	v := &Violation{Table: r.tbl.ID(), Hand: handID, Seed: r.seed, Reason: reason}
	r.logger.Error("Invariant violated", "hand", handID, "reason", reason)
	return v
}

// checkPots verifies the committed chips, the pot and the layered pots agree
func checkPots(state *game.GameState) error {
	total := committed(state)
	layered := 0
	for _, p := range game.CalculatePots(state.Seats) {
		layered += p.Amount
	}
	if total != state.Pot || layered != state.Pot {
		return fmt.Errorf("pot %d, committed %d, layered %d", state.Pot, total, layered)
	}
	return nil
}

func committed(state *game.GameState) int {
	total := 0
	for _, s := range state.Seats {
		if s != nil {
			total += s.TotalBetInHand
		}
	}
	return total
}

// checkCards verifies no card appears twice among the hole cards and board
func checkCards(state *game.GameState, board []poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, s := range state.Seats {
		if s == nil || !s.Active {
			continue
		}
		if len(s.HoleCards) != 2 {
			return fmt.Errorf("seat %d holds %d cards", s.Number, len(s.HoleCards))
		}
		for _, c := range s.HoleCards {
			if seen[c] {
				return fmt.Errorf("%s dealt twice", c)
			}
			seen[c] = true
		}
	}
	for _, c := range board {
		if seen[c] {
			return fmt.Errorf("%s dealt twice", c)
		}
		seen[c] = true
	}
	return nil
}

// IsViolation reports whether err is a broken invariant
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}
