package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Discover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "q", body["q"])
		_, _ = w.Write([]byte(`{"organic":[{"title":"t","link":"l","snippet":"s"},{"title":"t2","link":"l2","snippet":"s2"}]}`))
	}))
	defer srv.Close()

	out, err := Search{ApiKey: "secret", BaseURL: srv.URL}.Discover(context.Background(), "q", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "l", out[0].URL)
}
