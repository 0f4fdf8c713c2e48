package table

import (
	"sync"

	"github.com/lox/holdemcore/internal/game"
)

// Sink receives every event batch a table produces, in order. It is called
// with the table lock held and must not call back into the table.
type Sink interface {
	Publish(tableID, handID string, events []game.Event)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(tableID, handID string, events []game.Event)

// Publish calls f
func (f SinkFunc) Publish(tableID, handID string, events []game.Event) {
	f(tableID, handID, events)
}

type discardSink struct{}

func (discardSink) Publish(string, string, []game.Event) {}

// Recorder is a Sink that keeps every event, for tests and tools
type Recorder struct {
	mu     sync.Mutex
	events []game.Event
}

// Publish appends events
func (r *Recorder) Publish(_, _ string, events []game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []game.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []game.EventType {
	events := r.Events()
	out := make([]game.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
