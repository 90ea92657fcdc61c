package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	pathsTotal    prometheus.Counter
	clampedTotal  prometheus.Counter
	runDuration   prometheus.Histogram
	lastDiffusion *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volpath_runs_total",
				Help: "Simulation runs by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volpath_errors_total",
				Help: "Auxiliary errors by kind (cache, publish)",
			},
			[]string{"kind"},
		),
		pathsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "volpath_paths_generated_total",
				Help: "Total trajectories generated",
			},
		),
		clampedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "volpath_clamped_points_total",
				Help: "Points emitted on a band edge",
			},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "volpath_run_duration_seconds",
				Help:    "Duration of full simulation runs",
				Buckets: prometheus.DefBuckets,
			},
		),
		lastDiffusion: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volpath_last_diffusion_coefficient",
				Help: "Last diffusion coefficient used, by style",
			},
			[]string{"style"},
		),
	}
}

func (r *Recorder) RecordRun(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordPathsGenerated(n int) {
	r.pathsTotal.Add(float64(n))
}

func (r *Recorder) RecordClampedPoints(n int) {
	r.clampedTotal.Add(float64(n))
}

func (r *Recorder) RecordRunDuration(seconds float64) {
	r.runDuration.Observe(seconds)
}

func (r *Recorder) RecordDiffusion(style string, coefficient float64) {
	r.lastDiffusion.WithLabelValues(style).Set(coefficient)
}
