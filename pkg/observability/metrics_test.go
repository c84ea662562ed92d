package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeValidation, Outcome(domain.MissingParam("workspace")))
	assert.Equal(t, OutcomeFetch, Outcome(domain.FetchError("Genome", cause)))
	assert.Equal(t, OutcomeSave, Outcome(domain.SaveError("report", cause)))
	assert.Equal(t, OutcomeTool, Outcome(domain.ToolError(cause)))
	assert.Equal(t, OutcomeLock, Outcome(domain.LockError("ws/out", cause)))
	assert.Equal(t, OutcomeOther, Outcome(cause))
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRun(nil, time.Second)
	m.ObserveRun(domain.SaveError("report", errors.New("x")), time.Second)
	m.ObserveRun(nil, time.Second)
	m.ObserveTool(domain.ToolOutcome{ExitCode: 2, Duration: 3 * time.Second})
	m.ObserveFeatures(10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeSave)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolExits.WithLabelValues("2")))
}

func TestMetrics_StoreCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveStoreCall("get_objects", nil, time.Millisecond)
	m.ObserveStoreCall("save_objects", errors.New("x"), time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "interpro2go_store_call_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(nil, time.Second)
		m.ObserveTool(domain.ToolOutcome{})
		m.ObserveFeatures(1)
		m.ObserveStoreCall("get_objects", nil, time.Second)
	})
}
