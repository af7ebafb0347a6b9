package bootstrap

import (
	"fmt"

	"grounded-qa-be/internal/config"
	"grounded-qa-be/internal/pkg/logger"
	"grounded-qa-be/pkg/llm/factory"
	"grounded-qa-be/pkg/research"
	"grounded-qa-be/pkg/websearch"
	"grounded-qa-be/pkg/websearch/cache"
	searchFactory "grounded-qa-be/pkg/websearch/factory"

	"github.com/redis/go-redis/v9"
)

// PipelineDeps are the optional collaborators of a pipeline.
type PipelineDeps struct {
	Redis        redis.Cmdable // nil disables the search cache
	Observer     research.Observer
	CacheOnError func(op string, err error)
}

// NewPipeline builds the answering pipeline from configuration.
func NewPipeline(cfg *config.Config, log logger.ILogger, deps PipelineDeps) (*research.Pipeline, error) {
	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.LLMAPIKey,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	provider, err := searchFactory.NewProvider(searchFactory.Params{
		Provider:     cfg.Search.Provider,
		GoogleAPIKey: cfg.Search.GoogleAPIKey,
		GoogleCSEID:  cfg.Search.GoogleCSEID,
		SerperAPIKey: cfg.Search.SerperAPIKey,
		BraveAPIKey:  cfg.Search.BraveAPIKey,
		Timeout:      cfg.Search.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}

	if deps.Redis != nil {
		cached := cache.New(provider, deps.Redis, cfg.Search.CacheTTL)
		cached.OnError = func(op string, err error) {
			log.Warn("SEARCH", "Search cache unavailable, using live provider", map[string]interface{}{
				"op":    op,
				"error": err.Error(),
			})
			if deps.CacheOnError != nil {
				deps.CacheOnError(op, err)
			}
		}
		provider = cached
	}

	log.Info("BOOTSTRAP", "Pipeline configured", map[string]interface{}{
		"llm_provider":    cfg.Ai.LLMProvider,
		"llm_model":       cfg.Ai.LLMModel,
		"search_provider": provider.Name(),
		"search_cache":    deps.Redis != nil,
		"top_k":           cfg.Search.TopK,
	})

	policy := research.NewPolicy(research.NewLLMDecisionModel(llmProvider, cfg.Ai.HistoryWindow), nil, log)
	executor := research.NewExecutor(websearch.TextSearcher{Provider: provider}, cfg.Search.TopK, log)
	refiner := research.NewRefiner(research.NewLLMAnswerModel(llmProvider, cfg.Ai.HistoryWindow), log)

	opts := []research.Option{research.WithLogger(log)}
	if deps.Observer != nil {
		opts = append(opts, research.WithObserver(deps.Observer))
	}
	return research.NewPipeline(policy, executor, refiner, opts...), nil
}
