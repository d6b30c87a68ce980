/*package rand provides the deterministic random number streams used by the
simulation.

Every stream is a 64-bit linear congruential generator whose output is
scrambled with a random xorshift, multiply, fixed xorshift (rxs_m_xs)
permutation. A Master stream hands out seeds for the per-object and
per-particle streams, so a run is fully determined by a single seed.
*/
package rand

import (
	"math"
)

const (
	multiplier uint64 = 6364136223846793005
	increment  uint64 = 1442695040888963407
	outputMult uint64 = 12605985483714917081
)

// Generator is a single random number stream. A Generator must not be used
// by more than one goroutine at a time.
type Generator struct {
	state uint64
}

// NewGenerator returns a stream started from the given seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{state: seed}
}

// State returns the current internal state of the stream.
func (g *Generator) State() uint64 { return g.state }

// Seed resets the stream to the given state.
func (g *Generator) Seed(seed uint64) { g.state = seed }

// Uint64 advances the stream and returns its next 64-bit output word. This
// lets a Generator act as a math/rand/v2 Source.
func (g *Generator) Uint64() uint64 {
	g.state = g.state*multiplier + increment
	return output(g.state)
}

// Float64 returns a uniform deviate in [0, 1).
func (g *Generator) Float64() float64 {
	// The top 53 bits are the bits a double can hold, so converting the
	// whole word would occasionally round up to 1.
	return math.Ldexp(float64(g.Uint64()>>11), -53)
}

// output applies the rxs_m_xs permutation to a state word.
func output(state uint64) uint64 {
	word := ((state >> ((state >> 59) + 5)) ^ state) * outputMult
	return (word >> 43) ^ word
}

// Master is the stream which seeds all other streams of a run.
type Master struct {
	gen Generator
}

// NewMaster creates a master stream from the run seed.
func NewMaster(seed uint64) *Master {
	return &Master{gen: Generator{state: seed}}
}

// NextSeed advances the master stream and returns a fresh seed.
func (m *Master) NextSeed() uint64 { return m.gen.Uint64() }

// NewStream returns an independent stream seeded from the master stream.
func (m *Master) NewStream() *Generator { return NewGenerator(m.NextSeed()) }
