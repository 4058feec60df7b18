// Package metrics exposes pipeline instrumentation through Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the pipeline's Prometheus collectors. A nil *Recorder is a
// valid no-op so instrumentation stays optional.
type Recorder struct {
	requests      *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewRecorder registers the pipeline collectors on reg and returns the
// recorder. Passing prometheus.DefaultRegisterer wires the default registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "podscribe_pipeline_requests_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"status"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "podscribe_stage_failures_total",
			Help: "Stage failures by stage and error kind.",
		}, []string{"stage", "kind"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "podscribe_stage_duration_seconds",
			Help:    "Wall time spent per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		}, []string{"stage"}),
	}
	reg.MustRegister(r.requests, r.stageFailures, r.stageDuration)
	return r
}

// Request records one completed pipeline run.
func (r *Recorder) Request(ok bool) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	r.requests.WithLabelValues(status).Inc()
}

// StageFailure records a stage-tagged failure.
func (r *Recorder) StageFailure(stage, kind string) {
	if r == nil {
		return
	}
	r.stageFailures.WithLabelValues(stage, kind).Inc()
}

// ObserveStage records the wall time of one stage invocation.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
