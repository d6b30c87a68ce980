package tally

import (
	"math"
	"sync/atomic"
)

// slots is a flat array of tally values which may be updated from many
// goroutines at once. Every update is atomic per value.
type slots interface {
	Inc(i int)
	Add(i int, x float64)
	Get(i int) float64
	Set(i int, x float64)
	Len() int
}

// countSlots are integer counters.
type countSlots []atomic.Int64

func newCountSlots(n int) countSlots { return make(countSlots, n) }

func (s countSlots) Inc(i int) { s[i].Add(1) }
func (s countSlots) Add(i int, x float64) { s[i].Add(int64(x)) }
func (s countSlots) Get(i int) float64 { return float64(s[i].Load()) }
func (s countSlots) Set(i int, x float64) { s[i].Store(int64(x)) }
func (s countSlots) Len() int { return len(s) }

// sumSlots are float64 accumulators stored as their bit patterns and updated
// with compare-and-swap loops.
type sumSlots []atomic.Uint64

func newSumSlots(n int) sumSlots { return make(sumSlots, n) }

func (s sumSlots) Inc(i int) { s.Add(i, 1) }

func (s sumSlots) Add(i int, x float64) {
	for {
		old := s[i].Load()
		sum := math.Float64bits(math.Float64frombits(old) + x)
		if s[i].CompareAndSwap(old, sum) {
			return
		}
	}
}

func (s sumSlots) Get(i int) float64 { return math.Float64frombits(s[i].Load()) }
func (s sumSlots) Set(i int, x float64) { s[i].Store(math.Float64bits(x)) }
func (s sumSlots) Len() int { return len(s) }
