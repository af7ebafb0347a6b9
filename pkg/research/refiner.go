package research

import (
	"context"
	"strings"
	"time"

	"grounded-qa-be/internal/pkg/logger"
)

type AnswerModel interface {
	Generate(ctx context.Context, prompt string, history []Turn) (string, error)
}

type Refinement struct {
	FinalAnswer string
	History     []Turn
	NewTurns    []Turn
	// Refined reports whether the answer model was called.
	Refined bool
}

type Refiner struct {
	model  AnswerModel
	now    func() time.Time
	logger logger.ILogger
}

func NewRefiner(model AnswerModel, log logger.ILogger) *Refiner {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Refiner{model: model, now: time.Now, logger: log}
}

// UsableResearch rejects empty results and both sentinels.
func UsableResearch(results string) bool {
	trimmed := strings.TrimSpace(results)
	if trimmed == "" || trimmed == NoQuerySentinel {
		return false
	}
	return !strings.Contains(results, SearchFailureMarker)
}

func (r *Refiner) Refine(ctx context.Context, question, draft, research string, history []Turn) (Refinement, error) {
	final := draft
	refined := false

	if UsableResearch(research) {
		out, err := r.model.Generate(ctx, refinePrompt(question, draft, research), cloneTurns(history))
		if err != nil {
			return Refinement{}, &RefinementUnavailableError{Err: err}
		}
		refined = true
		if text := strings.TrimSpace(out); text != "" {
			final = text
		} else {
			r.logger.Warn("research", "Refinement returned no text, keeping draft", nil)
		}
	}

	asked := r.now()
	answered := r.now()
	if !answered.After(asked) {
		answered = asked.Add(time.Millisecond)
	}
	turns := []Turn{
		{Role: RoleHuman, Content: question, Timestamp: asked},
		{Role: RoleAI, Content: final, Timestamp: answered},
	}

	return Refinement{
		FinalAnswer: final,
		History:     appendTurns(history, turns...),
		NewTurns:    turns,
		Refined:     refined,
	}, nil
}
