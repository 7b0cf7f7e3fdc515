package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorter"
)

func TestObserveTrial(t *testing.T) {
	r := NewRecorder()
	r.ObserveTrial(model.Recursive, 4, sorter.Result{Comparisons: 5, Duration: time.Microsecond}, nil)
	r.ObserveTrial(model.Recursive, 4, sorter.Result{Comparisons: 4, Duration: time.Microsecond}, nil)
	r.ObserveTrial(model.Iterative, 4, sorter.Result{}, sorter.Verify(model.Iterative, []int{2, 1}))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.trials.WithLabelValues("recursive", statusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.trials.WithLabelValues("iterative", statusUnsorted)))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.comparisons.WithLabelValues("recursive", "4")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveTrial(model.Iterative, 8, sorter.Result{Comparisons: 17, Duration: 2 * time.Microsecond}, nil)

	path := filepath.Join(t.TempDir(), "sortbench.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `sortbench_trials_total{algorithm="iterative",status="ok"} 1`)
	assert.Contains(t, out, `sortbench_comparisons{algorithm="iterative",size="8"} 17`)
	assert.Contains(t, out, "sortbench_sort_duration_seconds_bucket")
}

func TestWriteTextfileMissingDir(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}
