package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"grounded-qa-be/pkg/websearch"
)

const DefaultBaseURL = "https://google.serper.dev/search"

type Search struct {
	ApiKey     string
	BaseURL    string
	HTTPClient *http.Client
}

var _ websearch.Provider = Search{}

func (s Search) Name() string { return "serper" }

func (s Search) Discover(ctx context.Context, q string, k int) ([]websearch.Result, error) {
	if s.ApiKey == "" {
		return nil, websearch.ErrMissingCredentials
	}
	// https://serper.dev/ docs
	body, err := json.Marshal(map[string]any{"q": q, "num": k})
	if err != nil {
		return nil, err
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &websearch.StatusError{Provider: s.Name(), StatusCode: resp.StatusCode, Body: string(msg)}
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []websearch.Result
	for i, it := range raw.Organic {
		if k > 0 && i >= k {
			break
		}
		out = append(out, websearch.Result{Title: it.Title, URL: it.Link, Snippet: it.Snippet})
	}
	return out, nil
}
