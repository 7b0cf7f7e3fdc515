// Package metrics records per-trial Prometheus metrics for a benchmark run.
package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorter"
)

const namespace = "sortbench"

const (
	statusOK       = "ok"
	statusUnsorted = "unsorted"
	statusError    = "error"
)

// Recorder implements runner.Observer on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	trials      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	comparisons *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Sort invocations by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_duration_seconds",
			Help:      "Wall-clock duration of successful sort invocations.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"algorithm"}),
		comparisons: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "comparisons",
			Help:      "Comparison count of the last successful sort per algorithm and input size.",
		}, []string{"algorithm", "size"}),
	}
	r.registry.MustRegister(r.trials, r.duration, r.comparisons)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveTrial records the outcome of one sort invocation.
func (r *Recorder) ObserveTrial(alg model.Algorithm, size int, res sorter.Result, err error) {
	switch {
	case err == nil:
		r.trials.WithLabelValues(string(alg), statusOK).Inc()
		r.duration.WithLabelValues(string(alg)).Observe(res.Duration.Seconds())
		r.comparisons.WithLabelValues(string(alg), strconv.Itoa(size)).Set(float64(res.Comparisons))
	case errors.Is(err, sorter.ErrUnsorted):
		r.trials.WithLabelValues(string(alg), statusUnsorted).Inc()
	default:
		r.trials.WithLabelValues(string(alg), statusError).Inc()
	}
}

// WriteTextfile writes all metrics in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
