package factory

import (
	"fmt"
	"time"

	"grounded-qa-be/pkg/llm"
	"grounded-qa-be/pkg/llm/huggingface"
	"grounded-qa-be/pkg/llm/ollama"
)

type Params struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "", "ollama":
		return ollama.NewOllamaProvider(p.BaseURL, p.Model, p.Timeout), nil
	case "huggingface", "openai":
		return huggingface.NewHuggingFaceProvider(p.APIKey, p.BaseURL, p.Model, p.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
