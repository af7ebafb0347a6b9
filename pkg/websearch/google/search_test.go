package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"grounded-qa-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Discover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		assert.Equal(t, "current president of france", q.Get("q"))
		assert.Equal(t, "2", q.Get("num"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"A","link":"https://a","snippet":"first"},
			{"title":"B","link":"https://b","snippet":"second"},
			{"title":"C","link":"https://c","snippet":"third"}]}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "key", EngineID: "cx", BaseURL: srv.URL, HTTPClient: srv.Client()}
	out, err := s.Discover(context.Background(), "current president of france", 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, websearch.Result{Title: "A", URL: "https://a", Snippet: "first"}, out[0])
}

func TestSearch_Errors(t *testing.T) {
	_, err := Search{}.Discover(context.Background(), "q", 5)
	assert.True(t, errors.Is(err, websearch.ErrMissingCredentials))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "daily limit", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err = Search{ApiKey: "k", EngineID: "c", BaseURL: srv.URL}.Discover(context.Background(), "q", 5)
	var se *websearch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestSearch_TransportErrorHidesApiKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := Search{ApiKey: "SECRET-KEY-123", EngineID: "cx", BaseURL: base}.
		Discover(context.Background(), "current president of france", 5)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.NotContains(t, err.Error(), "key=")
	assert.Contains(t, err.Error(), "google search")
}

func TestSearch_CancelledContextStaysDetectable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search{ApiKey: "SECRET-KEY-123", EngineID: "cx", BaseURL: srv.URL}.Discover(ctx, "q", 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
}
