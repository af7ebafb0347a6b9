package research

import (
	"context"
	"errors"
	"strings"

	"grounded-qa-be/internal/pkg/logger"
)

// FallbackDraft is used when the decision model yields no usable answer text.
const FallbackDraft = "I'm not able to give a confident answer to that right now."

// ModelDecision is the structured output of the decision model.
type ModelDecision struct {
	Answer         string `json:"answer"`
	ShouldResearch bool   `json:"should_research"`
	SearchQuery    string `json:"search_query"`
}

type DecisionModel interface {
	StructuredDecide(ctx context.Context, prompt string, history []Turn) (ModelDecision, error)
}

type DecisionSource string

const (
	SourceModel    DecisionSource = "model"
	SourceOverride DecisionSource = "override"
	SourceFallback DecisionSource = "fallback"
)

type Decision struct {
	DraftAnswer    string         `json:"draft_answer"`
	ShouldResearch bool           `json:"should_research"`
	SearchQuery    string         `json:"search_query"`
	Override       Override       `json:"override"`
	Model          ModelDecision  `json:"model"`
	Source         DecisionSource `json:"source"`
	// Recovered holds the model failure that was absorbed, if any.
	Recovered error `json:"-"`
}

type Policy struct {
	model     DecisionModel
	overrider *Overrider
	logger    logger.ILogger
}

func NewPolicy(model DecisionModel, overrider *Overrider, log logger.ILogger) *Policy {
	if overrider == nil {
		overrider = NewOverrider(DefaultOverrideRules)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Policy{model: model, overrider: overrider, logger: log}
}

// Decide never fails: model errors and malformed output are absorbed into a
// no-research decision before the keyword override is applied.
func (p *Policy) Decide(ctx context.Context, question string, history []Turn) Decision {
	override := p.overrider.Detect(question)

	d := Decision{Override: override, Source: SourceModel}

	md, err := p.model.StructuredDecide(ctx, decisionPrompt(question), cloneTurns(history))
	if err != nil {
		d.Recovered = err
		d.Source = SourceFallback
		md = fallbackDecision(err)
		p.logger.Warn("research", "Decision model failed, using fallback", map[string]interface{}{
			"error":     err.Error(),
			"malformed": isMalformed(err),
		})
	}
	d.Model = md

	// the model's answer is passed through untouched; only a blank one is replaced
	d.DraftAnswer = md.Answer
	if strings.TrimSpace(d.DraftAnswer) == "" {
		d.DraftAnswer = FallbackDraft
	}

	d.ShouldResearch, d.SearchQuery = reconcile(question, md, override)
	if override.Forced {
		d.Source = SourceOverride
	}

	p.logger.Debug("research", "Decision reconciled", map[string]interface{}{
		"forced":          override.Forced,
		"category":        string(override.Category),
		"should_research": d.ShouldResearch,
		"search_query":    d.SearchQuery,
		"source":          string(d.Source),
	})
	return d
}

// reconcile applies the forced override on top of the model's own decision.
func reconcile(question string, md ModelDecision, o Override) (bool, string) {
	if !o.Forced {
		return md.ShouldResearch, md.SearchQuery
	}
	switch {
	case strings.TrimSpace(o.Query) != "":
		return true, o.Query
	case strings.TrimSpace(md.SearchQuery) != "":
		return true, md.SearchQuery
	default:
		return true, question
	}
}

// fallbackDecision keeps plain-prose model text as the draft and skips research.
// Broken JSON is never shown to the user.
func fallbackDecision(err error) ModelDecision {
	var malformed *DecisionMalformedError
	if errors.As(err, &malformed) {
		raw := strings.TrimSpace(malformed.Raw)
		if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
			return ModelDecision{}
		}
		return ModelDecision{Answer: raw}
	}
	return ModelDecision{}
}

func isMalformed(err error) bool {
	var malformed *DecisionMalformedError
	return errors.As(err, &malformed)
}
