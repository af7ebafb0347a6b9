package research

import (
	"context"
	"os"
	"testing"
	"time"

	"grounded-qa-be/pkg/llm/ollama"

	"github.com/stretchr/testify/require"
)

// These tests talk to a local Ollama. Run with OLLAMA_INTEGRATION=1.
func liveOllama(t *testing.T) *ollama.OllamaProvider {
	t.Helper()
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("set OLLAMA_INTEGRATION=1 to run against a local Ollama")
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "phi3"
	}
	return ollama.NewOllamaProvider(os.Getenv("OLLAMA_BASE_URL"), model, 120*time.Second)
}

func TestOllamaStructuredDecision(t *testing.T) {
	provider := liveOllama(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	policy := NewPolicy(NewLLMDecisionModel(provider, DefaultHistoryWindow), nil, nil)

	cases := []struct {
		question  string
		expectRes bool
	}{
		{"What is 2+2?", false},
		{"Hello, how are you?", false},
		{"What were the headlines in the news today?", true},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			d := policy.Decide(ctx, tc.question, nil)
			require.NotEmpty(t, d.DraftAnswer)
			if d.Recovered != nil {
				t.Logf("decision recovered from: %v", d.Recovered)
			}
			if d.ShouldResearch != tc.expectRes {
				// model judgement, not a contract
				t.Logf("should_research=%v (expected %v), query=%q", d.ShouldResearch, tc.expectRes, d.SearchQuery)
			}
		})
	}
}

func TestOllamaForcedQuestionAlwaysResearches(t *testing.T) {
	provider := liveOllama(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	policy := NewPolicy(NewLLMDecisionModel(provider, DefaultHistoryWindow), nil, nil)
	d := policy.Decide(ctx, "Who is the chief minister of Andhra Pradesh?", nil)

	require.True(t, d.ShouldResearch)
	require.Equal(t, "current chief minister of andhra pradesh?", d.SearchQuery)
}
