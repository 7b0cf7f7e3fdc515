// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"

	"github.com/verte-zerg/sortbench/internal/model"
)

// Describe returns the mean and coefficient of variation of xs. The standard
// deviation uses the n-1 divisor. CV is 0 when xs has fewer than two values or
// a zero mean; the mean of an empty sample is 0.
func Describe(xs []float64) (mean, cv float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sample := moremath.Sample{Xs: xs}
	mean = sample.Mean()
	if len(xs) < 2 || mean == 0 {
		return mean, 0
	}
	sd := sample.StdDev()
	if math.IsNaN(sd) {
		return mean, 0
	}
	return mean, sd / mean
}

// Summarize reduces each size row of m to a summary over its valid trials.
func Summarize(m *model.Matrix) []model.Summary {
	if m == nil {
		return nil
	}
	out := make([]model.Summary, len(m.Sizes))
	for i, size := range m.Sizes {
		counts := make([]float64, 0, m.Trials)
		times := make([]float64, 0, m.Trials)
		for _, c := range m.Cells[i] {
			if !c.Valid {
				continue
			}
			counts = append(counts, float64(c.Comparisons))
			times = append(times, float64(c.Duration.Nanoseconds()))
		}
		meanCount, cvCount := Describe(counts)
		meanTime, cvTime := Describe(times)
		out[i] = model.Summary{
			Size:      size,
			MeanCount: meanCount,
			CVCount:   cvCount,
			MeanTime:  meanTime,
			CVTime:    cvTime,
			Samples:   len(counts),
		}
	}
	return out
}

// SummarizeAll summarizes every matrix keyed by algorithm.
func SummarizeAll(matrices map[model.Algorithm]*model.Matrix) map[model.Algorithm][]model.Summary {
	out := make(map[model.Algorithm][]model.Summary, len(matrices))
	for alg, m := range matrices {
		out[alg] = Summarize(m)
	}
	return out
}
