// Package model defines shared data structures.
package model

import "time"

// Algorithm names a merge sort variant.
type Algorithm string

const (
	Recursive Algorithm = "recursive"
	Iterative Algorithm = "iterative"
)

// Algorithms lists the variants in the order they run within a trial.
var Algorithms = []Algorithm{Recursive, Iterative}

// Config defines benchmark settings.
type Config struct {
	Sizes      []int
	Trials     int
	Seed       int64
	Warmup     bool
	OutDir     string
	DBPath     string
	NoHistory  bool
	MetricsOut string
}

// Measurement is the outcome of a single sort invocation.
// Valid is false for a slot whose trial failed.
type Measurement struct {
	Comparisons int64
	Duration    time.Duration
	Valid       bool
}

// Matrix holds measurements for one algorithm indexed by [size][trial].
type Matrix struct {
	Algorithm Algorithm
	Sizes     []int
	Trials    int
	Cells     [][]Measurement
}

// NewMatrix allocates an empty matrix with every slot unpopulated.
func NewMatrix(alg Algorithm, sizes []int, trials int) *Matrix {
	cells := make([][]Measurement, len(sizes))
	for i := range cells {
		cells[i] = make([]Measurement, trials)
	}
	return &Matrix{
		Algorithm: alg,
		Sizes:     append([]int(nil), sizes...),
		Trials:    trials,
		Cells:     cells,
	}
}

// ValidCount returns the number of populated trials for a size index.
func (m *Matrix) ValidCount(sizeIdx int) int {
	n := 0
	for _, c := range m.Cells[sizeIdx] {
		if c.Valid {
			n++
		}
	}
	return n
}

// Summary aggregates the trials of one (algorithm, size) pair.
// MeanTime is in nanoseconds.
type Summary struct {
	Size      int
	MeanCount float64
	CVCount   float64
	MeanTime  float64
	CVTime    float64
	Samples   int
}

// RunRecord identifies a stored benchmark run.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Sizes     []int
	Trials    int
	Seed      int64
	Failures  int
}
