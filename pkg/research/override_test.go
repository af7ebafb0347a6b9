package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrider_Detect(t *testing.T) {
	o := NewOverrider(DefaultOverrideRules)

	tests := []struct {
		name     string
		question string
		forced   bool
		category Category
		query    string
	}{
		{
			name:     "chief minister with place",
			question: "Who is the chief minister of Andhra Pradesh",
			forced:   true,
			category: CategoryChiefMinister,
			query:    "current chief minister of andhra pradesh",
		},
		{
			name:     "cm abbreviation",
			question: "Who is the CM of Kerala?",
			forced:   true,
			category: CategoryChiefMinister,
			query:    "current chief minister of kerala?",
		},
		{
			name:     "president keeps punctuation",
			question: "Who is the current president of the United States?",
			forced:   true,
			category: CategoryPresident,
			query:    "current president of the united states?",
		},
		{
			name:     "prime minister beats generic who is",
			question: "who is the prime minister of   India",
			forced:   true,
			category: CategoryPrimeMinister,
			query:    "current prime minister of india",
		},
		{
			name:     "governor uses generic leader role",
			question: "Who is the governor of Texas",
			forced:   true,
			category: CategoryCurrentLeader,
			query:    "current leader of texas",
		},
		{
			name:     "latest leader anchor",
			question: "Latest leader of the opposition party",
			forced:   true,
			category: CategoryCurrentLeader,
			query:    "current leader of the opposition party",
		},
		{
			name:     "empty remainder falls back",
			question: "Who is the president?",
			forced:   true,
			category: CategoryPresident,
			query:    "Who is the president? current",
		},
		{
			name:     "bare who is falls back",
			question: " Who is? ",
			forced:   true,
			category: CategoryCurrentLeader,
			query:    "Who is? current",
		},
		{
			name:     "stable fact is not forced",
			question: "What is the capital of France?",
		},
		{
			name:     "cm after a number is a unit",
			question: "How long is 5 cm?",
		},
		{
			name:     "keyword inside a word does not match",
			question: "Summarize the acme corp annual report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := o.Detect(tt.question)
			assert.Equal(t, tt.forced, got.Forced)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.query, got.Query)
		})
	}
}

func TestOverrider_CustomRulesKeepOrder(t *testing.T) {
	o := NewOverrider([]OverrideRule{
		{Category: "mayor", Role: "mayor", Keywords: []string{"mayor"}, Anchors: []string{"mayor of"}},
		{Category: "ceo", Role: "ceo", Keywords: []string{"ceo", "mayor"}},
	})

	got := o.Detect("Who is the mayor of Paris")
	assert.Equal(t, Category("mayor"), got.Category)
	assert.Equal(t, "mayor", got.Keyword)
	assert.Equal(t, "current mayor of paris", got.Query)

	got = o.Detect("who is the ceo")
	assert.Equal(t, Category("ceo"), got.Category)
	assert.Equal(t, "who is the ceo current", got.Query)
}

func TestKeywordHit(t *testing.T) {
	cm := phrasePattern("cm")
	assert.True(t, keywordHit(cm, "cm of goa"))
	assert.False(t, keywordHit(cm, "how long is 5 cm?"))
	assert.False(t, keywordHit(cm, "a 12   cm pipe"))
	assert.True(t, keywordHit(cm, "is 5 cm tall for the cm?"))
}
