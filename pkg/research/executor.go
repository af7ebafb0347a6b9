package research

import (
	"context"
	"strings"

	"grounded-qa-be/internal/pkg/logger"
)

const (
	DefaultTopK = 5

	NoQuerySentinel = "No search query provided."
	// SearchFailureMarker starts every failure sentinel.
	SearchFailureMarker = "Failed to conduct search"
)

type Searcher interface {
	Search(ctx context.Context, query string, topK int) (string, error)
}

type ResearchStatus string

const (
	StatusNotRun  ResearchStatus = ""
	StatusOK      ResearchStatus = "ok"
	StatusEmpty   ResearchStatus = "empty"
	StatusNoQuery ResearchStatus = "no_query"
	StatusFailed  ResearchStatus = "failed"
)

type ResearchOutcome struct {
	Query   string         `json:"query"`
	Results string         `json:"results"`
	Status  ResearchStatus `json:"status"`
	Failure *SearchFailure `json:"-"`
}

type Executor struct {
	searcher Searcher
	topK     int
	logger   logger.ILogger
}

func NewExecutor(searcher Searcher, topK int, log logger.ILogger) *Executor {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Executor{searcher: searcher, topK: topK, logger: log}
}

func (e *Executor) TopK() int { return e.topK }

// Execute always returns an outcome; provider errors become a failure sentinel.
func (e *Executor) Execute(ctx context.Context, query string) ResearchOutcome {
	query = strings.TrimSpace(query)
	if query == "" {
		return ResearchOutcome{Results: NoQuerySentinel, Status: StatusNoQuery}
	}

	results, err := e.searcher.Search(ctx, query, e.topK)
	if err != nil {
		failure := &SearchFailure{Query: query, Err: err}
		e.logger.Warn("research", "Search failed, degrading to draft", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return ResearchOutcome{
			Query:   query,
			Results: FailureSentinel(failure),
			Status:  StatusFailed,
			Failure: failure,
		}
	}

	status := StatusOK
	if strings.TrimSpace(results) == "" {
		status = StatusEmpty
	}
	e.logger.Debug("research", "Search completed", map[string]interface{}{
		"query":  query,
		"status": string(status),
		"chars":  len(results),
	})
	return ResearchOutcome{Query: query, Results: results, Status: status}
}

func FailureSentinel(f *SearchFailure) string {
	return SearchFailureMarker + ": " + f.Error()
}
