package research

import (
	"context"
	"fmt"
	"time"

	"grounded-qa-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "grounded-qa-be/pkg/research"

// Observer receives stage timings and run outcomes, e.g. for metrics.
type Observer interface {
	StageCompleted(stage Stage, elapsed time.Duration)
	RunCompleted(res *Result, err error)
}

type Result struct {
	FinalAnswer string
	History     []Turn
	NewTurns    []Turn
	State       State
	Trace       []Stage
}

type Pipeline struct {
	policy   *Policy
	executor *Executor
	refiner  *Refiner
	tracer   trace.Tracer
	logger   logger.ILogger
	observer Observer
	now      func() time.Time
}

type Option func(*Pipeline)

func WithLogger(l logger.ILogger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithClock replaces time.Now for stage timings and turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
		p.refiner.now = now
	}
}

func NewPipeline(policy *Policy, executor *Executor, refiner *Refiner, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy:   policy,
		executor: executor,
		refiner:  refiner,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.NewNopLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run drives START -> DECIDE -> (RESEARCH) -> REFINE -> DONE once. The only
// errors returned are context cancellation and *RefinementUnavailableError.
func (p *Pipeline) Run(ctx context.Context, sessionID, question string, prior []Turn) (res *Result, err error) {
	ctx, span := p.tracer.Start(ctx, "research.pipeline", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if p.observer != nil {
			p.observer.RunCompleted(res, err)
		}
	}()

	state := NewState(sessionID, question, prior)
	visited := []Stage{StageStart}

	p.logger.Info("pipeline", "Run started", map[string]interface{}{
		"session_id": sessionID,
		"question":   logger.Preview(question, 80),
		"history":    len(prior),
	})

	for stage := StageDecide; stage != StageDone; {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline", "Run cancelled", map[string]interface{}{
				"session_id": sessionID,
				"stage":      stage.String(),
			})
			return nil, err
		}

		started := p.now()
		next, nextState, stepErr := p.step(ctx, stage, state)
		if p.observer != nil {
			p.observer.StageCompleted(stage, p.now().Sub(started))
		}
		if stepErr != nil {
			p.logger.Error("pipeline", "Stage failed", map[string]interface{}{
				"session_id": sessionID,
				"stage":      stage.String(),
				"error":      stepErr.Error(),
			})
			return nil, stepErr
		}

		visited = append(visited, stage)
		state = nextState
		stage = next
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	visited = append(visited, StageDone)

	p.logger.Info("pipeline", "Run finished", map[string]interface{}{
		"session_id":      sessionID,
		"should_research": state.ShouldResearch,
		"research_status": string(state.Research.Status),
		"refined":         state.Refined,
		"stages":          len(visited),
	})

	return &Result{
		FinalAnswer: state.FinalAnswer,
		History:     state.History,
		NewTurns:    cloneTurns(state.History[len(prior):]),
		State:       state,
		Trace:       visited,
	}, nil
}

func (p *Pipeline) step(ctx context.Context, stage Stage, s State) (Stage, State, error) {
	ctx, span := p.tracer.Start(ctx, "research."+stage.String())
	defer span.End()

	switch stage {
	case StageDecide:
		s = p.decide(ctx, s)
		span.SetAttributes(
			attribute.Bool("research.forced", s.Decision.Override.Forced),
			attribute.Bool("research.should_research", s.ShouldResearch),
		)
		if s.ShouldResearch {
			return StageResearch, s, nil
		}
		return StageRefine, s, nil

	case StageResearch:
		s = p.research(ctx, s)
		span.SetAttributes(attribute.String("research.status", string(s.Research.Status)))
		return StageRefine, s, nil

	case StageRefine:
		next, err := p.refine(ctx, s)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return stage, s, err
		}
		span.SetAttributes(attribute.Bool("research.refined", next.Refined))
		return StageDone, next, nil

	default:
		return stage, s, fmt.Errorf("unexpected pipeline stage %s", stage)
	}
}

func (p *Pipeline) decide(ctx context.Context, s State) State {
	d := p.policy.Decide(ctx, s.Question, s.History)
	s.Decision = d
	s.DraftAnswer = d.DraftAnswer
	s.ShouldResearch = d.ShouldResearch
	s.SearchQuery = d.SearchQuery
	return s
}

func (p *Pipeline) research(ctx context.Context, s State) State {
	out := p.executor.Execute(ctx, s.SearchQuery)
	s.Research = out
	s.ResearchResults = out.Results
	return s
}

func (p *Pipeline) refine(ctx context.Context, s State) (State, error) {
	ref, err := p.refiner.Refine(ctx, s.Question, s.DraftAnswer, s.ResearchResults, s.History)
	if err != nil {
		return s, err
	}
	s.FinalAnswer = ref.FinalAnswer
	s.History = ref.History
	s.Refined = ref.Refined
	return s, nil
}
