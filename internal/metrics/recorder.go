package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/timing"
)

// Phases a timing label maps to.
const (
	PhaseRun     = "run"
	PhaseSetup   = "setup"
	PhaseCompile = "compile"
	PhaseIO      = "io"
)

// ParseLabel splits a timing label such as "setup: threadpool" into its
// phase and subject. A bare label is the run phase of that strategy.
func ParseLabel(label string) (phase, subject string) {
	if label == "I/O" {
		return PhaseIO, ""
	}
	if p, s, ok := strings.Cut(label, ": "); ok {
		return p, s
	}
	return PhaseRun, label
}

// Recorder collects the metrics of one benchmark invocation in a private
// registry. It implements timing.Reporter.
type Recorder struct {
	registry  *prometheus.Registry
	durations *prometheus.HistogramVec
	runs      *prometheus.CounterVec
	estimate  *prometheus.GaugeVec
	workers   prometheus.Gauge
}

// NewRecorder returns a recorder whose metrics carry the kernel label.
func NewRecorder(kernelName string) *Recorder {
	constLabels := prometheus.Labels{"kernel": kernelName}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "parbench",
			Name:        "phase_duration_seconds",
			Help:        "Wall-clock duration of benchmark phases.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"phase", "subject"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "parbench",
			Name:        "strategy_runs_total",
			Help:        "Strategy runs by outcome.",
			ConstLabels: constLabels,
		}, []string{"strategy", "status"}),
		estimate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "parbench",
			Name:        "pi_estimate",
			Help:        "Last pi estimate produced by each strategy.",
			ConstLabels: constLabels,
		}, []string{"strategy"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "parbench",
			Name:        "workers",
			Help:        "Configured width of the parallel strategies.",
			ConstLabels: constLabels,
		}),
	}
	r.registry.MustRegister(r.durations, r.runs, r.estimate, r.workers)
	return r
}

// Report observes the duration of a finished phase.
func (r *Recorder) Report(rec timing.Record) {
	phase, subject := ParseLabel(rec.Label)
	r.durations.WithLabelValues(phase, subject).Observe(rec.Seconds())
}

// ObserveResult counts a strategy run and keeps its π estimate.
func (r *Recorder) ObserveResult(strategy string, res kernel.Result, err error) {
	if err != nil {
		r.runs.WithLabelValues(strategy, "error").Inc()
		return
	}
	r.runs.WithLabelValues(strategy, "ok").Inc()
	if est, ok := res.(kernel.PiEstimate); ok {
		r.estimate.WithLabelValues(strategy).Set(est.Estimate)
	}
}

// SetWorkers records the configured worker count.
func (r *Recorder) SetWorkers(n int) { r.workers.Set(float64(n)) }

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ timing.Reporter = (*Recorder)(nil)
