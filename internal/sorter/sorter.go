// Package sorter implements the recursive and iterative merge sort variants.
package sorter

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
)

// ErrUnsorted is returned when a sort's output fails verification.
var ErrUnsorted = errors.New("sequence not sorted")

// VerificationError reports the first out-of-order position in a sort's output.
type VerificationError struct {
	Algorithm model.Algorithm
	Index     int
	Len       int
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s sort: %v: element %d of %d is smaller than its predecessor", e.Algorithm, ErrUnsorted, e.Index, e.Len)
}

// Unwrap allows errors.Is(err, ErrUnsorted).
func (e *VerificationError) Unwrap() error {
	return ErrUnsorted
}

// Result is what a single sort call reports.
type Result struct {
	Sorted      []int
	Comparisons int64
	Duration    time.Duration
}

// Sorter sorts a sequence in place and reports the work it did.
type Sorter interface {
	Algorithm() model.Algorithm
	Sort(data []int) (Result, error)
}

// New returns the sorter for the named algorithm.
func New(alg model.Algorithm) (Sorter, error) {
	switch alg {
	case model.Recursive:
		return Recursive{}, nil
	case model.Iterative:
		return Iterative{}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// Recursive is the top-down merge sort.
type Recursive struct{}

// Algorithm implements Sorter.
func (Recursive) Algorithm() model.Algorithm { return model.Recursive }

// Sort implements Sorter.
func (r Recursive) Sort(data []int) (Result, error) {
	m := newMerger(data)
	start := time.Now()
	m.sortRange(0, len(data))
	elapsed := time.Since(start)
	return finish(r.Algorithm(), data, m.count, elapsed)
}

// Iterative is the bottom-up merge sort.
type Iterative struct{}

// Algorithm implements Sorter.
func (Iterative) Algorithm() model.Algorithm { return model.Iterative }

// Sort implements Sorter.
func (it Iterative) Sort(data []int) (Result, error) {
	m := newMerger(data)
	n := len(data)
	start := time.Now()
	for size := 1; size < n; size *= 2 {
		for left := 0; left < n; left += 2 * size {
			m.merge(left, left+size, left+2*size)
		}
	}
	elapsed := time.Since(start)
	return finish(it.Algorithm(), data, m.count, elapsed)
}

func finish(alg model.Algorithm, data []int, count int64, elapsed time.Duration) (Result, error) {
	res := Result{Sorted: data, Comparisons: count, Duration: elapsed}
	if idx := firstUnsorted(data); idx >= 0 {
		return res, &VerificationError{Algorithm: alg, Index: idx, Len: len(data)}
	}
	return res, nil
}

// Verify checks that data is in non-decreasing order.
func Verify(alg model.Algorithm, data []int) error {
	if idx := firstUnsorted(data); idx >= 0 {
		return &VerificationError{Algorithm: alg, Index: idx, Len: len(data)}
	}
	return nil
}

func firstUnsorted(data []int) int {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return i
		}
	}
	return -1
}
