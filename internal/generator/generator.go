// Package generator builds randomized benchmark datasets.
package generator

import (
	"math/rand"
	"time"
)

// Source supplies one dataset of the requested length per call.
type Source interface {
	Ints(n int) []int
}

// Generator produces uniform integer datasets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed, or with the current time when seed is zero.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Ints returns n integers drawn uniformly from [0, n).
func (g *Generator) Ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.rnd.Intn(n)
	}
	return out
}

// Fixed replays a fixed list of datasets in order, cycling once exhausted.
// A dataset whose length differs from the requested n is truncated or
// zero-padded to fit.
type Fixed struct {
	datasets [][]int
	next     int
}

// NewFixed returns a Source that replays the given datasets.
func NewFixed(datasets ...[]int) *Fixed {
	return &Fixed{datasets: datasets}
}

// Ints implements Source.
func (f *Fixed) Ints(n int) []int {
	out := make([]int, n)
	if len(f.datasets) == 0 {
		return out
	}
	copy(out, f.datasets[f.next%len(f.datasets)])
	f.next++
	return out
}
