// Package runner drives repeated, sequential sort trials over a range of input sizes.
package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorter"
)

// DefaultTrials is the number of trials run per input size.
const DefaultTrials = 50

// DefaultSizes are the input sizes used when none are configured.
var DefaultSizes = []int{10000, 20000, 30000, 40000, 50000, 60000, 70000, 80000, 90000, 100000}

// Observer is notified after every sort invocation.
type Observer interface {
	ObserveTrial(alg model.Algorithm, size int, res sorter.Result, err error)
}

// Runner executes trials one at a time and fills a matrix per algorithm.
type Runner struct {
	sorters  []sorter.Sorter
	source   generator.Source
	logger   *slog.Logger
	observer Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for per-size progress and trial failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver attaches an observer to every trial.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithSorters replaces the default recursive/iterative pair.
func WithSorters(s ...sorter.Sorter) Option {
	return func(r *Runner) { r.sorters = s }
}

// New returns a Runner drawing datasets from source.
func New(source generator.Source, opts ...Option) *Runner {
	r := &Runner{
		sorters: []sorter.Sorter{sorter.Recursive{}, sorter.Iterative{}},
		source:  source,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run is the complete set of measurements from one benchmark run.
type Run struct {
	Sizes    []int
	Trials   int
	Matrices map[model.Algorithm]*model.Matrix
	Failures int
}

// Matrix returns the measurements for alg, or nil if it did not run.
func (r *Run) Matrix(alg model.Algorithm) *model.Matrix {
	return r.Matrices[alg]
}

// Run executes trials for every size. Sort failures are logged and leave the
// affected slot unpopulated; they never abort the run.
func (r *Runner) Run(sizes []int, trials int) (*Run, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("trials must be > 0, got %d", trials)
	}
	for _, n := range sizes {
		if n < 0 {
			return nil, fmt.Errorf("input size must be >= 0, got %d", n)
		}
	}
	if len(r.sorters) == 0 {
		return nil, errors.New("no sorters configured")
	}

	run := &Run{
		Sizes:    append([]int(nil), sizes...),
		Trials:   trials,
		Matrices: make(map[model.Algorithm]*model.Matrix, len(r.sorters)),
	}
	for _, s := range r.sorters {
		run.Matrices[s.Algorithm()] = model.NewMatrix(s.Algorithm(), sizes, trials)
	}

	for i, n := range sizes {
		r.logger.Debug("running size", "size", n, "trials", trials)
		for j := 0; j < trials; j++ {
			dataset := r.source.Ints(n)
			for _, s := range r.sorters {
				if ok := r.trial(run.Matrices[s.Algorithm()], s, dataset, i, j); !ok {
					run.Failures++
				}
			}
		}
	}
	return run, nil
}

func (r *Runner) trial(m *model.Matrix, s sorter.Sorter, dataset []int, sizeIdx, trialIdx int) bool {
	work := make([]int, len(dataset))
	copy(work, dataset)

	res, err := s.Sort(work)
	if r.observer != nil {
		r.observer.ObserveTrial(s.Algorithm(), len(dataset), res, err)
	}
	if err != nil {
		if errors.Is(err, sorter.ErrUnsorted) {
			r.logger.Warn("array not sorted, trial skipped",
				"algorithm", s.Algorithm(), "size", len(dataset), "trial", trialIdx, "err", err)
		} else {
			r.logger.Error("sort failed, trial skipped",
				"algorithm", s.Algorithm(), "size", len(dataset), "trial", trialIdx, "err", err)
		}
		return false
	}
	m.Cells[sizeIdx][trialIdx] = model.Measurement{
		Comparisons: res.Comparisons,
		Duration:    res.Duration,
		Valid:       true,
	}
	return true
}
