package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"grounded-qa-be/pkg/llm"
)

// DefaultHistoryWindow is how many recent turns are sent to the model.
const DefaultHistoryWindow = 20

// LLMDecisionModel asks an llm.LLMProvider for a JSON decision.
type LLMDecisionModel struct {
	provider llm.LLMProvider
	window   int
}

func NewLLMDecisionModel(provider llm.LLMProvider, historyWindow int) *LLMDecisionModel {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &LLMDecisionModel{provider: provider, window: historyWindow}
}

func (m *LLMDecisionModel) StructuredDecide(ctx context.Context, prompt string, history []Turn) (ModelDecision, error) {
	messages := append(toMessages(history, m.window), llm.Message{Role: llm.RoleUser, Content: prompt})

	raw, err := m.provider.Chat(ctx, messages, llm.WithTemperature(0), llm.WithJSONFormat())
	if err != nil {
		return ModelDecision{}, fmt.Errorf("decision model: %w", err)
	}
	return parseDecision(raw)
}

// LLMAnswerModel produces free text answers.
type LLMAnswerModel struct {
	provider llm.LLMProvider
	window   int
}

func NewLLMAnswerModel(provider llm.LLMProvider, historyWindow int) *LLMAnswerModel {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &LLMAnswerModel{provider: provider, window: historyWindow}
}

func (m *LLMAnswerModel) Generate(ctx context.Context, prompt string, history []Turn) (string, error) {
	messages := append(toMessages(history, m.window), llm.Message{Role: llm.RoleUser, Content: prompt})
	return m.provider.Chat(ctx, messages, llm.WithTemperature(0.2))
}

func toMessages(history []Turn, window int) []llm.Message {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	out := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleUser
		if t.Role == RoleAI {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: t.Content})
	}
	return out
}

type wireDecision struct {
	Answer         string   `json:"answer"`
	ShouldResearch flexBool `json:"should_research"`
	SearchQuery    string   `json:"search_query"`
}

// flexBool accepts true, "true", "yes" and 1 since small models are loose with types.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(strings.TrimSpace(string(data))), `"`)
	switch s {
	case "true", "yes", "1":
		*b = true
	case "false", "no", "0", "", "null":
		*b = false
	default:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		*b = flexBool(v)
	}
	return nil
}

var errNoJSON = errors.New("no JSON object in response")

func parseDecision(raw string) (ModelDecision, error) {
	content := extractJSON(raw)
	if content == "" {
		return ModelDecision{}, &DecisionMalformedError{Raw: raw, Err: errNoJSON}
	}

	var w wireDecision
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return ModelDecision{}, &DecisionMalformedError{Raw: raw, Err: err}
	}

	return ModelDecision{
		Answer:         strings.TrimSpace(w.Answer),
		ShouldResearch: bool(w.ShouldResearch),
		SearchQuery:    strings.TrimSpace(w.SearchQuery),
	}, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return response[startIdx : endIdx+1]
}
