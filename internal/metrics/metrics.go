// Package metrics exposes Prometheus counters for guarded volume operations.
//
// Counters live in a private registry owned by the Recorder so that several
// recorders (one per test, for instance) never collide. The CLI is a
// short-lived process, so metrics are exported by writing the registry to a
// textfile that node_exporter's textfile collector picks up.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jbweber/voldctl/internal/vold"
)

// Recorder implements vold.Recorder on top of Prometheus counters.
type Recorder struct {
	registry *prometheus.Registry

	Decisions  *prometheus.CounterVec
	Dispatches *prometheus.CounterVec
	Attempts   *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldctl_guard_decisions_total",
				Help: "Guard decisions by operation and outcome (proceed, noop, reject)",
			},
			[]string{"operation", "decision"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldctl_commands_total",
				Help: "Commands sent to the volume daemon by verb, result and result code",
			},
			[]string{"verb", "result", "code"},
		),
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voldctl_best_effort_attempts_total",
				Help: "Best-effort sub-operations by operation and result",
			},
			[]string{"operation", "result"},
		),
	}

	r.registry.MustRegister(r.Decisions, r.Dispatches, r.Attempts)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordDecision counts a guard decision.
func (r *Recorder) RecordDecision(op string, d vold.Decision) {
	r.Decisions.WithLabelValues(op, d.String()).Inc()
}

// RecordDispatch counts a command sent to the daemon.
func (r *Recorder) RecordDispatch(verb string, code int) {
	r.Dispatches.WithLabelValues(verb, result(code), strconv.Itoa(code)).Inc()
}

// RecordAttempt counts a best-effort sub-operation.
func (r *Recorder) RecordAttempt(op string, code int) {
	r.Attempts.WithLabelValues(op, result(code)).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func result(code int) string {
	if code == vold.ResultOK {
		return "success"
	}
	return "failure"
}
