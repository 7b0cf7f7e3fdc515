// Package export writes and reads per-algorithm summary records as text.
//
// Each line holds one record with five space-separated fields in fixed order:
//
//	size mean_count cv_count mean_time cv_time
//
// Floats use the shortest representation that parses back to the same value.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/verte-zerg/sortbench/internal/model"
)

// ErrResourceUnavailable wraps failures to create or write an export destination.
var ErrResourceUnavailable = errors.New("export destination unavailable")

// FieldCount is the number of fields in a record.
const FieldCount = 5

// FileName returns the conventional export file name for an algorithm.
func FileName(alg model.Algorithm) string {
	switch alg {
	case model.Recursive:
		return "RecursiveData.txt"
	case model.Iterative:
		return "IterativeData.txt"
	default:
		return string(alg) + "Data.txt"
	}
}

// FormatRecord renders one summary as a record line without the newline.
func FormatRecord(s model.Summary) string {
	return strconv.Itoa(s.Size) + " " +
		formatFloat(s.MeanCount) + " " +
		formatFloat(s.CVCount) + " " +
		formatFloat(s.MeanTime) + " " +
		formatFloat(s.CVTime)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write writes one record per summary, in order.
func Write(w io.Writer, summaries []model.Summary) error {
	bw := bufio.NewWriter(w)
	for _, s := range summaries {
		if _, err := fmt.Fprintln(bw, FormatRecord(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces path with the given records. The file is written to a
// temporary sibling and renamed into place, so a failed write leaves any
// previous file intact.
func WriteFile(path string, summaries []model.Summary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create export dir: %v", ErrResourceUnavailable, err)
	}
	tmpFile, err := os.CreateTemp(dir, "export-*.txt")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", ErrResourceUnavailable, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := Write(tmpFile, summaries); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrResourceUnavailable, path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", ErrResourceUnavailable, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrResourceUnavailable, path, err)
	}
	return nil
}

// WriteAll writes one file per algorithm into dir and returns the paths written.
func WriteAll(dir string, algs []model.Algorithm, summaries map[model.Algorithm][]model.Summary) ([]string, error) {
	paths := make([]string, 0, len(algs))
	for _, alg := range algs {
		path := filepath.Join(dir, FileName(alg))
		if err := WriteFile(path, summaries[alg]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
