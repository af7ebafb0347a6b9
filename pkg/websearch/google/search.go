package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"grounded-qa-be/pkg/websearch"
)

const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// the Custom Search JSON API refuses num > 10
const maxResults = 10

// Search queries the Google Programmable Search (CSE) JSON API.
type Search struct {
	ApiKey     string
	EngineID   string
	BaseURL    string
	HTTPClient *http.Client
}

var _ websearch.Provider = Search{}

func (s Search) Name() string { return "google" }

func (s Search) Discover(ctx context.Context, q string, k int) ([]websearch.Result, error) {
	if s.ApiKey == "" || s.EngineID == "" {
		return nil, fmt.Errorf("google: %w", websearch.ErrMissingCredentials)
	}
	if k <= 0 || k > maxResults {
		k = maxResults
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	params := url.Values{}
	params.Set("key", s.ApiKey)
	params.Set("cx", s.EngineID)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(k))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, redact(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &websearch.StatusError{Provider: s.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]websearch.Result, 0, len(raw.Items))
	for i, it := range raw.Items {
		if i >= k {
			break
		}
		out = append(out, websearch.Result{Title: it.Title, URL: it.Link, Snippet: it.Snippet})
	}
	return out, nil
}

// redact drops the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("google search: %s: %w", urlErr.Op, urlErr.Err)
	}
	return fmt.Errorf("google search: %w", err)
}
