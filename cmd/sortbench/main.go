// Package main provides the CLI entrypoint for sortbench.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/sortbench/internal/config"
	"github.com/verte-zerg/sortbench/internal/export"
	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/metrics"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/reportui"
	"github.com/verte-zerg/sortbench/internal/runner"
	"github.com/verte-zerg/sortbench/internal/stats"
	"github.com/verte-zerg/sortbench/internal/store"
)

const (
	defaultOutDir       = "."
	defaultHistoryLimit = 20
)

var (
	benchSizes      []int
	benchTrials     int
	benchSeed       int64
	benchWarmup     bool
	benchOutDir     string
	benchDBPath     string
	benchNoHistory  bool
	benchMetricsOut string
	verbose         bool

	reportPlain bool

	historyLimit int
	historyRun   string
	historyDB    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sortbench",
		Short:         "Benchmark recursive and iterative merge sort",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBenchCmd,
	}

	rootCmd.Flags().IntSliceVar(&benchSizes, "sizes", runner.DefaultSizes, "comma-separated input sizes")
	rootCmd.Flags().IntVar(&benchTrials, "trials", runner.DefaultTrials, "trials per input size")
	rootCmd.Flags().Int64Var(&benchSeed, "seed", 0, "dataset seed (0 seeds from the clock)")
	rootCmd.Flags().BoolVar(&benchWarmup, "warmup", true, "run a warmup pass before measuring")
	rootCmd.Flags().StringVar(&benchOutDir, "out-dir", defaultOutDir, "directory for RecursiveData.txt and IterativeData.txt")
	rootCmd.Flags().StringVar(&benchDBPath, "db", "", "run history database (default: XDG data dir)")
	rootCmd.Flags().BoolVar(&benchNoHistory, "no-history", false, "do not record the run in the history database")
	rootCmd.Flags().StringVar(&benchMetricsOut, "metrics-out", "", "write Prometheus textfile metrics to this path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runBenchCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySizesConfig(cmd, "sizes", &benchSizes, fileCfg.Bench.Sizes)
	applyIntConfig(cmd, "trials", &benchTrials, fileCfg.Bench.Trials)
	applyInt64Config(cmd, "seed", &benchSeed, fileCfg.Bench.Seed)
	applyBoolConfig(cmd, "warmup", &benchWarmup, fileCfg.Bench.Warmup)
	applyStringConfig(cmd, "out-dir", &benchOutDir, fileCfg.Bench.OutDir)
	applyStringConfig(cmd, "db", &benchDBPath, fileCfg.Bench.DBPath)
	applyBoolConfig(cmd, "no-history", &benchNoHistory, fileCfg.Bench.NoHistory)
	applyStringConfig(cmd, "metrics-out", &benchMetricsOut, fileCfg.Bench.MetricsOut)

	cfg := model.Config{
		Sizes:      append([]int(nil), benchSizes...),
		Trials:     benchTrials,
		Seed:       benchSeed,
		Warmup:     benchWarmup,
		OutDir:     benchOutDir,
		DBPath:     benchDBPath,
		NoHistory:  benchNoHistory,
		MetricsOut: benchMetricsOut,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath()
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return runBenchmark(cmd.Context(), cfg, logger, cmd.OutOrStdout())
}

func runBenchmark(ctx context.Context, cfg model.Config, logger *slog.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Warmup {
		elapsed := runner.Warmup()
		logger.Info("warmup complete", "elapsed", elapsed)
	}

	opts := []runner.Option{runner.WithLogger(logger)}
	var recorder *metrics.Recorder
	if cfg.MetricsOut != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, runner.WithObserver(recorder))
	}

	startedAt := time.Now()
	r := runner.New(generator.New(cfg.Seed), opts...)
	run, err := r.Run(cfg.Sizes, cfg.Trials)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}
	if run.Failures > 0 {
		logger.Warn("some trials were skipped", "failures", run.Failures)
	}

	report := stats.BuildReport(run.Matrices, run.Failures)
	if err := stats.RenderReport(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	paths, err := export.WriteAll(cfg.OutDir, report.Algorithms, report.Summaries)
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	for _, p := range paths {
		logger.Info("wrote results", "path", p)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.MetricsOut); err != nil {
			return fmt.Errorf("%w: %v", export.ErrResourceUnavailable, err)
		}
		logger.Info("wrote metrics", "path", cfg.MetricsOut)
	}

	if cfg.NoHistory {
		return nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()
	id, err := st.SaveRun(ctx, model.RunRecord{
		StartedAt: startedAt,
		Sizes:     cfg.Sizes,
		Trials:    cfg.Trials,
		Seed:      cfg.Seed,
		Failures:  run.Failures,
	}, report.Summaries)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("recorded run", "id", id)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE...",
		Short: "Show exported benchmark results",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().BoolVar(&reportPlain, "plain", false, "print plain text tables instead of the interactive viewer")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	sheets := make([]reportui.Sheet, 0, len(args))
	for _, path := range args {
		summaries, err := export.ReadFile(path)
		if err != nil {
			return err
		}
		sheets = append(sheets, reportui.Sheet{Title: filepath.Base(path), Summaries: summaries})
	}

	if reportPlain || !isTerminal(os.Stdout) {
		for _, sh := range sheets {
			if err := stats.RenderSummaryTable(cmd.OutOrStdout(), sh.Title, sh.Summaries); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	return reportui.Run(sheets)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "last", defaultHistoryLimit, "number of runs to list (0 for all)")
	cmd.Flags().StringVar(&historyRun, "run", "", "show the summaries of this run id")
	cmd.Flags().StringVar(&historyDB, "db", "", "run history database (default: XDG data dir)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	path := historyDB
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if historyRun != "" {
		summaries, err := st.LoadSummaries(ctx, historyRun)
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		for _, alg := range model.Algorithms {
			rows, ok := summaries[alg]
			if !ok {
				continue
			}
			if err := stats.RenderSummaryTable(out, fmt.Sprintf("%s merge sort", alg), rows); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	runs, err := st.ListRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	for _, run := range runs {
		if _, err := fmt.Fprintf(out, "%s  %s  trials=%d sizes=%s failures=%d\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Trials,
			formatSizes(run.Sizes),
			run.Failures,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func formatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

func applySizesConfig(cmd *cobra.Command, name string, target, value *[]int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]int(nil), (*value)...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# sortbench configuration
# Uncomment a value to enable it. CLI flags override config values.

[bench]
# sizes = [%s]
# trials = %d             # Trials per input size
# seed = 0                # Dataset seed (0 seeds from the clock)
# warmup = true           # Warm up both sorts before measuring
# out-dir = %q            # Directory for RecursiveData.txt and IterativeData.txt
# db = ""                 # Run history database path
# no-history = false      # Skip recording runs
# metrics-out = ""        # Prometheus textfile output path
`,
		strings.ReplaceAll(formatSizes(runner.DefaultSizes), ",", ", "),
		runner.DefaultTrials,
		defaultOutDir,
	)
}

func validateConfig(cfg model.Config) error {
	if len(cfg.Sizes) == 0 {
		return fmt.Errorf("--sizes must not be empty")
	}
	for _, n := range cfg.Sizes {
		if n < 0 {
			return fmt.Errorf("--sizes must be >= 0, got %d", n)
		}
	}
	if cfg.Trials <= 0 {
		return fmt.Errorf("--trials must be > 0")
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("--out-dir must not be empty")
	}
	return nil
}
