package rarity

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
	"sync"
)

// Default inherit roll split. A child keeps the parent tier half the time,
// drops one tier 30% of the time, and climbs one tier otherwise, with
// clamping at both ends of the scale.
const (
	DefaultSameChance  = 0.50
	DefaultLowerChance = 0.30
)

// Source supplies the uniform random values consumed by inherit rolls.
// Implemented by SeededSource (production) and testutil.QueuedSource
// (tests), so every branch of the roll can be forced deterministically.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// SeededSource is a Source backed by math/rand/v2, seeded from crypto/rand
// at construction time.
//
// Thread-safety: guarded by an internal mutex; rolls may come from both the
// scheduler goroutine and command handlers.
type SeededSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededSource creates a SeededSource with a high-entropy seed.
// Panics if the system entropy source fails (should never happen).
func NewSeededSource() *SeededSource {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("rarity: read random seed: " + err.Error())
	}
	s1 := binary.LittleEndian.Uint64(b[:8])
	s2 := binary.LittleEndian.Uint64(b[8:])
	return &SeededSource{rng: mathrand.New(mathrand.NewPCG(s1, s2))}
}

// Float64 returns a uniform value in [0, 1).
func (s *SeededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Roller applies the inherit rule using an injected random source and
// configurable branch probabilities.
type Roller struct {
	src         Source
	sameChance  float64
	lowerChance float64
}

// RollerOption configures a Roller.
type RollerOption func(*Roller)

// WithChances overrides the same/lower branch probabilities.
// The remaining probability mass goes to the higher branch.
func WithChances(same, lower float64) RollerOption {
	return func(r *Roller) {
		r.sameChance = same
		r.lowerChance = lower
	}
}

// NewRoller creates a Roller with the default 50/30/20 split.
func NewRoller(src Source, opts ...RollerOption) *Roller {
	r := &Roller{
		src:         src,
		sameChance:  DefaultSameChance,
		lowerChance: DefaultLowerChance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Inherit rolls a child tier from a parent tier.
//
// The draw r in [0,1) maps to: r < same → parent; r < same+lower → one tier
// down; otherwise one tier up. Results clamp at Common and Mythical, so a
// Common parent's "down" branch and a Mythical parent's "up" branch both
// return the parent tier.
func (r *Roller) Inherit(parent Tier) Tier {
	roll := r.src.Float64()
	switch {
	case roll < r.sameChance:
		return clamp(parent)
	case roll < r.sameChance+r.lowerChance:
		return clamp(parent - 1)
	default:
		return clamp(parent + 1)
	}
}
