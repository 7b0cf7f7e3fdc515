package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/sortbench/internal/config"
	"github.com/verte-zerg/sortbench/internal/export"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunBenchmarkEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := model.Config{
		Sizes:      []int{0, 1, 16, 50},
		Trials:     3,
		Seed:       42,
		Warmup:     true,
		OutDir:     filepath.Join(dir, "out"),
		DBPath:     filepath.Join(dir, "db", "sortbench.db"),
		MetricsOut: filepath.Join(dir, "sortbench.prom"),
	}
	var out bytes.Buffer
	require.NoError(t, runBenchmark(context.Background(), cfg, quietLogger(), &out))

	assert.Contains(t, out.String(), "recursive merge sort")
	assert.Contains(t, out.String(), "iterative merge sort")

	for _, alg := range model.Algorithms {
		summaries, err := export.ReadFile(filepath.Join(cfg.OutDir, export.FileName(alg)))
		require.NoError(t, err)
		require.Len(t, summaries, len(cfg.Sizes))
		for i, s := range summaries {
			assert.Equal(t, cfg.Sizes[i], s.Size)
		}
		assert.Zero(t, summaries[0].MeanCount)
		assert.Zero(t, summaries[0].CVCount)
		assert.Zero(t, summaries[1].MeanCount)
		assert.Zero(t, summaries[1].CVCount)
	}

	metricsData, err := os.ReadFile(cfg.MetricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "sortbench_trials_total")

	st, err := store.Open(cfg.DBPath)
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()
	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, cfg.Sizes, runs[0].Sizes)
	assert.Equal(t, int64(42), runs[0].Seed)
}

func TestRunBenchmarkExportUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := model.Config{
		Sizes:     []int{8},
		Trials:    2,
		Seed:      1,
		OutDir:    filepath.Join(blocker, "out"),
		NoHistory: true,
	}
	var out bytes.Buffer
	err := runBenchmark(context.Background(), cfg, quietLogger(), &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrResourceUnavailable))
	// Statistics were computed and shown before the export step failed.
	assert.Contains(t, out.String(), "recursive merge sort")
}

func TestReportCommandPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RecursiveData.txt")
	require.NoError(t, export.WriteFile(path, []model.Summary{
		{Size: 10, MeanCount: 22.5, CVCount: 0.1, MeanTime: 900, CVTime: 0.3},
	}))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"report", "--plain", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "RecursiveData.txt")
	assert.Contains(t, out.String(), "10.00%")
	assert.Contains(t, out.String(), "30.00%")
}

func TestReportCommandMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("10 19 0.1\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"report", "--plain", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrMalformedRecord))
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Bench.Sizes)
	assert.Len(t, *cfg.Bench.Sizes, 10)
	require.NotNil(t, cfg.Bench.Trials)
	assert.Equal(t, 50, *cfg.Bench.Trials)
}

func TestValidateConfig(t *testing.T) {
	good := model.Config{Sizes: []int{10}, Trials: 1, OutDir: "."}
	require.NoError(t, validateConfig(good))

	bad := []model.Config{
		{Sizes: nil, Trials: 1, OutDir: "."},
		{Sizes: []int{-5}, Trials: 1, OutDir: "."},
		{Sizes: []int{10}, Trials: 0, OutDir: "."},
		{Sizes: []int{10}, Trials: 1, OutDir: ""},
	}
	for _, cfg := range bad {
		assert.Error(t, validateConfig(cfg))
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--trials", "9"}))

	trials := 50
	fromFile := 7
	applyIntConfig(cmd, "trials", &trials, &fromFile)
	assert.Equal(t, 50, trials, "changed flag must win")

	sizes := []int{1}
	fileSizes := []int{5, 6}
	applySizesConfig(cmd, "sizes", &sizes, &fileSizes)
	assert.Equal(t, []int{5, 6}, sizes)
}
