package table

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/internal/handid"
)

// Config holds the settings of a single table
type Config struct {
	ID            string
	MaxSeats      int
	SmallBlind    int
	BigBlind      int
	TurnTimeout   time.Duration // zero disables turn timers
	TimeoutAction string        // config.TimeoutFold or config.TimeoutCheckOrFold
}

// ConfigFrom converts a loaded table block into a driver config
func ConfigFrom(tc config.TableConfig) (Config, error) {
	timeout, err := tc.Timeout()
	if err != nil {
		return Config{}, fmt.Errorf("table %s: %w", tc.Name, err)
	}
	return Config{
		ID:            tc.Name,
		MaxSeats:      tc.MaxSeats,
		SmallBlind:    tc.SmallBlind,
		BigBlind:      tc.BigBlind,
		TurnTimeout:   timeout,
		TimeoutAction: tc.TimeoutAction,
	}, nil
}

// Option configures a Table
type Option func(*Table)

// WithClock sets the clock used for turn timers
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithSink sets where hand events are published
func WithSink(sink Sink) Option {
	return func(t *Table) { t.sink = sink }
}

// WithRand sets the shuffle source
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithHandIDs sets the hand ID generator
func WithHandIDs(ids *handid.Generator) Option {
	return func(t *Table) { t.ids = ids }
}
