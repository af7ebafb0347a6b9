package factory

import (
	"fmt"
	"net/http"
	"time"

	"grounded-qa-be/pkg/websearch"
	"grounded-qa-be/pkg/websearch/brave"
	"grounded-qa-be/pkg/websearch/google"
	"grounded-qa-be/pkg/websearch/serper"
)

type Params struct {
	Provider     string
	GoogleAPIKey string
	GoogleCSEID  string
	SerperAPIKey string
	BraveAPIKey  string
	Timeout      time.Duration
}

func NewProvider(p Params) (websearch.Provider, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	switch p.Provider {
	case "", "google":
		return google.Search{ApiKey: p.GoogleAPIKey, EngineID: p.GoogleCSEID, HTTPClient: client}, nil
	case "serper":
		return serper.Search{ApiKey: p.SerperAPIKey, HTTPClient: client}, nil
	case "brave":
		return brave.Search{ApiKey: p.BraveAPIKey, HTTPClient: client}, nil
	default:
		return nil, fmt.Errorf("%w: %s", websearch.ErrUnsupportedProvider, p.Provider)
	}
}
