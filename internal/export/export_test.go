package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/sortbench/internal/model"
)

func sampleSummaries() []model.Summary {
	return []model.Summary{
		{Size: 0, MeanCount: 0, CVCount: 0, MeanTime: 41.5, CVTime: 0.2},
		{Size: 4, MeanCount: 5, CVCount: 0, MeanTime: 120.33333333333333, CVTime: 0.1234567890123},
		{Size: 10000, MeanCount: 120456.78, CVCount: 0.0012345678901234567, MeanTime: 7.5e5, CVTime: 1.0 / 3.0},
	}
}

func TestFormatRecordFieldOrder(t *testing.T) {
	line := FormatRecord(model.Summary{Size: 4, MeanCount: 5, CVCount: 0.25, MeanTime: 120, CVTime: 0.5})
	assert.Equal(t, "4 5 0.25 120 0.5", line)
}

func TestRoundTripIsLossless(t *testing.T) {
	var buf bytes.Buffer
	in := sampleSummaries()
	require.NoError(t, Write(&buf, in))
	assert.Equal(t, len(in), strings.Count(buf.String(), "\n"))

	out, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadSkipsBlankLines(t *testing.T) {
	out, err := Read(strings.NewReader("\n10 19 0.1 300 0.2\n\n"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].Size)
}

func TestReadRejectsMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"missing field": "10 19 0.1 300\n",
		"extra field":   "10 19 0.1 300 0.2 9\n",
		"bad size":      "ten 19 0.1 300 0.2\n",
		"negative size": "-1 19 0.1 300 0.2\n",
		"bad float":     "10 19 abc 300 0.2\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader("4 5 0 120 0.5\n" + input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
			var merr *MalformedRecordError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, 2, merr.Line)
		})
	}
}

func TestWriteAllAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	summaries := map[model.Algorithm][]model.Summary{
		model.Recursive: sampleSummaries(),
		model.Iterative: sampleSummaries()[:1],
	}
	paths, err := WriteAll(dir, model.Algorithms, summaries)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "RecursiveData.txt"),
		filepath.Join(dir, "IterativeData.txt"),
	}, paths)

	got, err := ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, summaries[model.Recursive], got)

	got, err = ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, summaries[model.Iterative], got)

	// Rewriting replaces instead of appending.
	require.NoError(t, WriteFile(paths[0], sampleSummaries()[:2]))
	got, err = ReadFile(paths[0])
	require.NoError(t, err)
	assert.Len(t, got, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files must not be left behind")
}

func TestWriteFileUnavailableDestination(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "RecursiveData.txt"), sampleSummaries())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceUnavailable))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
