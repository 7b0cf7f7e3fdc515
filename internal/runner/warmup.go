package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/sorter"
)

const (
	warmupRounds = 200
	warmupSize   = 1000
	warmupSeed   = 1
)

var (
	warmupOnce sync.Once
	warmupRan  atomic.Bool
)

// Warmup exercises both sort variants on throwaway data so the first measured
// trial does not pay for cold caches and lazy runtime setup. It runs at most
// once per process; later calls return immediately with zero duration.
func Warmup() time.Duration {
	var elapsed time.Duration
	warmupOnce.Do(func() {
		gen := generator.New(warmupSeed)
		sorters := []sorter.Sorter{sorter.Recursive{}, sorter.Iterative{}}
		start := time.Now()
		for i := 0; i < warmupRounds; i++ {
			data := gen.Ints(warmupSize)
			for _, s := range sorters {
				work := append([]int(nil), data...)
				_, _ = s.Sort(work)
			}
		}
		elapsed = time.Since(start)
		warmupRan.Store(true)
	})
	return elapsed
}

// WarmupDone reports whether Warmup has completed in this process.
func WarmupDone() bool {
	return warmupRan.Load()
}
