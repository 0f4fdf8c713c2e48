// Package randutil derives reproducible math/rand/v2 sources from int64 seeds.
package randutil

import (
	"math/rand/v2"
	"time"
)

const goldenGamma = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. The same seed
// always yields the same shuffle sequence.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenGamma)))
}

// NewFromTime returns a source seeded from the wall clock along with the
// seed used, so a run can be logged and replayed later.
func NewFromTime() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Derive returns the seed for the n-th independent stream under a base seed.
// Tables and hands use it so that each gets its own reproducible sequence.
func Derive(base int64, n int) int64 {
	return int64(splitmix(uint64(base) + uint64(n+1)*goldenGamma))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
