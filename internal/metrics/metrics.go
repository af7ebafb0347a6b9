package metrics

import (
	"context"
	"errors"
	"time"

	"grounded-qa-be/pkg/research"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grounded_qa"

// PipelineMetrics records pipeline runs. It implements research.Observer.
type PipelineMetrics struct {
	runs           *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	searchFailures prometheus.Counter
	stageDuration  *prometheus.HistogramVec
	cacheErrors    *prometheus.CounterVec
}

var _ research.Observer = (*PipelineMetrics)(nil)

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Pipeline runs by outcome",
			},
			[]string{"outcome"}, // answered, refinement_unavailable, cancelled, error
		),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "research_decisions_total",
				Help:      "Grounding decisions by source",
			},
			[]string{"decision"}, // forced, model, none
		),
		searchFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_failures_total",
				Help:      "Searches that degraded to the failure sentinel",
			},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Time spent in each pipeline stage",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"stage"},
		),
		cacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_cache_errors_total",
				Help:      "Search cache operations that failed and fell through",
			},
			[]string{"op"},
		),
	}
}

func (m *PipelineMetrics) StageCompleted(stage research.Stage, elapsed time.Duration) {
	m.stageDuration.WithLabelValues(stage.String()).Observe(elapsed.Seconds())
}

func (m *PipelineMetrics) RunCompleted(res *research.Result, err error) {
	m.runs.WithLabelValues(outcome(err)).Inc()
	if res == nil {
		return
	}

	switch {
	case res.State.Decision.Override.Forced:
		m.decisions.WithLabelValues("forced").Inc()
	case res.State.ShouldResearch:
		m.decisions.WithLabelValues("model").Inc()
	default:
		m.decisions.WithLabelValues("none").Inc()
	}

	if res.State.Research.Status == research.StatusFailed {
		m.searchFailures.Inc()
	}
}

// CacheError matches the search cache OnError hook.
func (m *PipelineMetrics) CacheError(op string, _ error) {
	m.cacheErrors.WithLabelValues(op).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "answered"
	case errors.Is(err, research.ErrRefinementUnavailable):
		return "refinement_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
