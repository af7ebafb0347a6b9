package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"grounded-qa-be/pkg/research"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPipelineMetrics_RunOutcomes(t *testing.T) {
	m := NewPipelineMetrics(prometheus.NewRegistry())

	forced := &research.Result{State: research.State{
		ShouldResearch: true,
		Decision:       research.Decision{Override: research.Override{Forced: true}},
		Research:       research.ResearchOutcome{Status: research.StatusFailed},
	}}
	plain := &research.Result{State: research.State{}}

	m.RunCompleted(forced, nil)
	m.RunCompleted(plain, nil)
	m.RunCompleted(nil, &research.RefinementUnavailableError{Err: fmt.Errorf("boom")})
	m.RunCompleted(nil, context.Canceled)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("answered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("refinement_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("forced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchFailures))
}

func TestPipelineMetrics_StageDuration(t *testing.T) {
	m := NewPipelineMetrics(prometheus.NewRegistry())

	m.StageCompleted(research.StageDecide, 120*time.Millisecond)
	m.StageCompleted(research.StageRefine, time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestPipelineMetrics_CacheError(t *testing.T) {
	m := NewPipelineMetrics(prometheus.NewRegistry())
	m.CacheError("get", fmt.Errorf("down"))
	m.CacheError("get", fmt.Errorf("down"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheErrors.WithLabelValues("get")))
}
