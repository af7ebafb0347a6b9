package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider discovers up to k results for q.
type Provider interface {
	Name() string
	Discover(ctx context.Context, q string, k int) ([]Result, error)
}

var (
	ErrUnsupportedProvider = errors.New("unsupported search provider")
	ErrMissingCredentials  = errors.New("search provider credentials missing")
)

// StatusError is returned when the provider answers with a non 2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("%s search: status %d: %s", e.Provider, e.StatusCode, strings.TrimSpace(body))
}

// Flatten joins the snippets of results into one block of text, skipping
// entries that carry no snippet.
func Flatten(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		s := strings.Join(strings.Fields(r.Snippet), " ")
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// TextSearcher adapts a Provider to a plain text search capability.
type TextSearcher struct {
	Provider Provider
}

func (t TextSearcher) Search(ctx context.Context, query string, topK int) (string, error) {
	results, err := t.Provider.Discover(ctx, query, topK)
	if err != nil {
		return "", err
	}
	return Flatten(results), nil
}
