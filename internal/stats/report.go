// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/sortbench/internal/model"
)

// Report contains the summaries of a finished run in display order.
type Report struct {
	Algorithms []model.Algorithm
	Summaries  map[model.Algorithm][]model.Summary
	Failures   int
}

// BuildReport summarizes the matrices in the canonical algorithm order.
// Algorithms without a matrix are skipped.
func BuildReport(matrices map[model.Algorithm]*model.Matrix, failures int) Report {
	r := Report{
		Summaries: SummarizeAll(matrices),
		Failures:  failures,
	}
	for _, alg := range model.Algorithms {
		if _, ok := matrices[alg]; ok {
			r.Algorithms = append(r.Algorithms, alg)
		}
	}
	return r
}

// TableHeaders are the column titles of a summary table.
var TableHeaders = []string{"Size", "Avg Count", "Coef Count", "Avg Time", "Coef Time"}

// SummaryRow formats one summary for tabular display. Coefficients are shown
// as percentages and times in nanoseconds.
func SummaryRow(s model.Summary) []string {
	return []string{
		fmt.Sprintf("%d", s.Size),
		fmt.Sprintf("%.1f", s.MeanCount),
		fmt.Sprintf("%.2f%%", s.CVCount*100),
		fmt.Sprintf("%.0f", s.MeanTime),
		fmt.Sprintf("%.2f%%", s.CVTime*100),
	}
}

// RenderSummaryTable prints a titled table of summaries.
func RenderSummaryTable(w io.Writer, title string, summaries []model.Summary) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, SummaryRow(s))
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(TableHeaders, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints one table per algorithm followed by a failure count.
func RenderReport(w io.Writer, r Report) error {
	for _, alg := range r.Algorithms {
		if err := RenderSummaryTable(w, fmt.Sprintf("%s merge sort", alg), r.Summaries[alg]); err != nil {
			return err
		}
	}
	if r.Failures > 0 {
		if _, err := fmt.Fprintf(w, "Failed trials: %d\n", r.Failures); err != nil {
			return err
		}
	}
	return nil
}
