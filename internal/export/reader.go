package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/sortbench/internal/model"
)

// ErrMalformedRecord marks a record that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes which line failed to parse and why.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, ErrMalformedRecord, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedRecord).
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Read parses records until EOF. Blank lines are ignored. Samples is not part
// of the record format and is left at zero.
func Read(r io.Reader) ([]model.Summary, error) {
	var out []model.Summary
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		s, err := parseRecord(line, text)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile opens path and parses its records.
func ReadFile(path string) ([]model.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	summaries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return summaries, nil
}

func parseRecord(line int, text string) (model.Summary, error) {
	fields := strings.Fields(text)
	if len(fields) != FieldCount {
		return model.Summary{}, &MalformedRecordError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(fields)),
		}
	}
	size, err := strconv.Atoi(fields[0])
	if err != nil || size < 0 {
		return model.Summary{}, &MalformedRecordError{Line: line, Reason: fmt.Sprintf("invalid size %q", fields[0])}
	}
	names := []string{"mean count", "count coefficient", "mean time", "time coefficient"}
	values := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return model.Summary{}, &MalformedRecordError{Line: line, Reason: fmt.Sprintf("invalid %s %q", name, fields[i+1])}
		}
		values[i] = v
	}
	return model.Summary{
		Size:      size,
		MeanCount: values[0],
		CVCount:   values[1],
		MeanTime:  values[2],
		CVTime:    values[3],
	}, nil
}
