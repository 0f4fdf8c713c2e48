// Package handid generates time-ordered hand identifiers: a UUIDv7 encoded
// as 26 lower-case Crockford base32 characters.
package handid

import (
	crand "crypto/rand"
	"encoding/base32"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator produces hand IDs. It is safe for concurrent use.
type Generator struct {
	clock quartz.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator reading time from clock. A nil rng uses
// crypto/rand; pass a seeded one for reproducible IDs in tests.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// New returns an ID using the real clock and crypto randomness
func New() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate returns a new ID
func (g *Generator) Generate() string {
	var id [16]byte
	ms := g.clock.Now().UnixMilli()
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rng != nil {
		g.mu.Lock()
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rng.UintN(256))
		}
		g.mu.Unlock()
	} else if _, err := crand.Read(id[6:]); err != nil {
		panic("handid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return encoding.EncodeToString(id[:])
}

// Time extracts the millisecond timestamp embedded in an ID
func Time(id string) (time.Time, error) {
	raw, err := encoding.DecodeString(id)
	if err != nil || len(raw) != 16 {
		return time.Time{}, fmt.Errorf("invalid hand id %q", id)
	}
	var ms int64
	for _, b := range raw[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms), nil
}
