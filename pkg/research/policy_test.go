package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_ForcedOverridesModel(t *testing.T) {
	model := &fakeDecisionModel{decision: ModelDecision{Answer: "N. Chandrababu Naidu", ShouldResearch: false}}
	p := NewPolicy(model, nil, nil)

	d := p.Decide(context.Background(), "Who is the chief minister of Andhra Pradesh", nil)

	assert.True(t, d.ShouldResearch)
	assert.Equal(t, "current chief minister of andhra pradesh", d.SearchQuery)
	assert.Equal(t, "N. Chandrababu Naidu", d.DraftAnswer)
	assert.Equal(t, SourceOverride, d.Source)
	assert.True(t, d.Override.Forced)
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.prompt, "Who is the chief minister of Andhra Pradesh")
}

func TestPolicy_NotForcedKeepsModelDecisionVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		decision ModelDecision
	}{
		{name: "no research", decision: ModelDecision{Answer: "Paris", ShouldResearch: false}},
		{name: "model asks for research", decision: ModelDecision{Answer: "Maybe", ShouldResearch: true, SearchQuery: "latest iphone release"}},
		{name: "query without research flag", decision: ModelDecision{Answer: "42", ShouldResearch: false, SearchQuery: "ignored"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(&fakeDecisionModel{decision: tt.decision}, nil, nil)
			d := p.Decide(context.Background(), "What is the capital of France?", nil)

			assert.Equal(t, tt.decision.ShouldResearch, d.ShouldResearch)
			assert.Equal(t, tt.decision.SearchQuery, d.SearchQuery)
			assert.Equal(t, tt.decision.Answer, d.DraftAnswer)
			assert.Equal(t, SourceModel, d.Source)
		})
	}
}

func TestReconcile(t *testing.T) {
	q := "who runs it"
	md := ModelDecision{ShouldResearch: false, SearchQuery: "model query"}

	should, query := reconcile(q, md, Override{Forced: true, Query: "forced query"})
	assert.True(t, should)
	assert.Equal(t, "forced query", query)

	should, query = reconcile(q, md, Override{Forced: true})
	assert.True(t, should)
	assert.Equal(t, "model query", query)

	should, query = reconcile(q, ModelDecision{}, Override{Forced: true})
	assert.True(t, should)
	assert.Equal(t, q, query)
}

func TestPolicy_MalformedOutputFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		draft string
	}{
		{name: "plain prose becomes draft", raw: "  Paris is the capital.  ", draft: "Paris is the capital."},
		{name: "broken json is hidden", raw: `{"answer": "Par`, draft: FallbackDraft},
		{name: "empty output", raw: "", draft: FallbackDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeDecisionModel{err: &DecisionMalformedError{Raw: tt.raw, Err: errNoJSON}}
			d := NewPolicy(model, nil, nil).Decide(context.Background(), "What is the capital of France?", nil)

			assert.False(t, d.ShouldResearch)
			assert.Empty(t, d.SearchQuery)
			assert.Equal(t, tt.draft, d.DraftAnswer)
			assert.Equal(t, SourceFallback, d.Source)
			require.Error(t, d.Recovered)
		})
	}
}

func TestPolicy_ModelErrorStillForcesResearch(t *testing.T) {
	boom := errors.New("connection refused")
	d := NewPolicy(&fakeDecisionModel{err: boom}, nil, nil).
		Decide(context.Background(), "Who is the president of France", nil)

	assert.True(t, d.ShouldResearch)
	assert.Equal(t, "current president of france", d.SearchQuery)
	assert.Equal(t, FallbackDraft, d.DraftAnswer)
	assert.Equal(t, SourceOverride, d.Source)
	assert.ErrorIs(t, d.Recovered, boom)
}

func TestPolicy_BlankAnswerUsesFallbackDraft(t *testing.T) {
	d := NewPolicy(&fakeDecisionModel{decision: ModelDecision{Answer: "   "}}, nil, nil).
		Decide(context.Background(), "What is 2+2?", nil)
	assert.Equal(t, FallbackDraft, d.DraftAnswer)
}

func TestPolicy_ModelAnswerIsKeptVerbatim(t *testing.T) {
	answer := "  Paris is the capital of France.\n"
	d := NewPolicy(&fakeDecisionModel{decision: ModelDecision{Answer: answer}}, nil, nil).
		Decide(context.Background(), "What is the capital of France?", nil)
	assert.Equal(t, answer, d.DraftAnswer)
	assert.False(t, d.ShouldResearch)
}

func TestPolicy_DoesNotShareHistory(t *testing.T) {
	history := []Turn{{Role: RoleHuman, Content: "hi"}}
	model := &fakeDecisionModel{decision: ModelDecision{Answer: "a"}}
	NewPolicy(model, nil, nil).Decide(context.Background(), "q", history)

	model.history[0].Content = "changed"
	assert.Equal(t, "hi", history[0].Content)
}
