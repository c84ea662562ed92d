package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the runs counter.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeFetch      = "fetch"
	OutcomeSave       = "save"
	OutcomeTool       = "tool"
	OutcomeLock       = "lock"
	OutcomeOther      = "other"
)

// Metrics groups the service collectors.
type Metrics struct {
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	toolDuration prometheus.Histogram
	toolExits    *prometheus.CounterVec
	features     prometheus.Histogram
	storeCalls   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interpro2go_runs_total",
				Help: "Total number of interpro2go invocations by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interpro2go_run_duration_seconds",
			Help:    "Duration of interpro2go invocations",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		toolDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interpro2go_tool_duration_seconds",
			Help:    "Duration of annotation tool executions",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		toolExits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interpro2go_tool_exits_total",
				Help: "Annotation tool exits by exit code",
			},
			[]string{"exit_code"},
		),
		features: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interpro2go_features_projected",
			Help:    "Number of features written to the protein FASTA per invocation",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8),
		}),
		storeCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interpro2go_store_call_duration_seconds",
				Help:    "Duration of object store calls by method and result",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "result"},
		),
	}
	reg.MustRegister(m.runs, m.runDuration, m.toolDuration, m.toolExits, m.features, m.storeCalls)
	return m
}

// ObserveRun records a finished invocation.
func (m *Metrics) ObserveRun(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(Outcome(err)).Inc()
	m.runDuration.Observe(d.Seconds())
}

// ObserveTool records one tool execution.
func (m *Metrics) ObserveTool(outcome domain.ToolOutcome) {
	if m == nil {
		return
	}
	m.toolDuration.Observe(outcome.Duration.Seconds())
	m.toolExits.WithLabelValues(strconv.Itoa(outcome.ExitCode)).Inc()
}

// ObserveFeatures records the size of a projected FASTA file.
func (m *Metrics) ObserveFeatures(n int) {
	if m == nil {
		return
	}
	m.features.Observe(float64(n))
}

// ObserveStoreCall records one object store call.
func (m *Metrics) ObserveStoreCall(method string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeCalls.WithLabelValues(method, result).Observe(d.Seconds())
}

// Outcome maps an invocation error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrFetch):
		return OutcomeFetch
	case errors.Is(err, domain.ErrSave):
		return OutcomeSave
	case errors.Is(err, domain.ErrTool):
		return OutcomeTool
	case errors.Is(err, domain.ErrLock):
		return OutcomeLock
	default:
		return OutcomeOther
	}
}
