package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsPayload(n int) map[string]interface{} {
	items := make([]map[string]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, map[string]string{
			"title":   fmt.Sprintf("Result %d", i),
			"snippet": fmt.Sprintf("Snippet %d", i),
			"link":    fmt.Sprintf("https://www.cpf.gov.sg/page-%d", i),
		})
	}
	return map[string]interface{}{"items": items}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func jsonHandler(payload interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}

func TestGoogleCSEClient_Search_SendsScopedQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "How much CPF do I need to retire?", r.URL.Query().Get("q"))
		assert.Equal(t, "cse-123", r.URL.Query().Get("cx"))
		assert.Equal(t, "key-abc", r.URL.Query().Get("key"))
		jsonHandler(itemsPayload(1))(w, r)
	})

	client := NewGoogleCSEClient("key-abc", "cse-123", srv.URL, time.Second)
	results, err := client.Search(context.Background(), "How much CPF do I need to retire?")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SearchResult{
		Title:   "Result 1",
		Snippet: "Snippet 1",
		URL:     "https://www.cpf.gov.sg/page-1",
	}, results[0])
}

func TestGoogleCSEClient_Search_Truncation(t *testing.T) {
	tests := []struct {
		name      string
		provided  int
		wantCount int
	}{
		{"more than three keeps first three", 10, 3},
		{"exactly three", 3, 3},
		{"fewer than three keeps all", 2, 2},
		{"one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, jsonHandler(itemsPayload(tt.provided)))
			client := NewGoogleCSEClient("k", "cx", srv.URL, time.Second)

			results, err := client.Search(context.Background(), "cpf")

			require.NoError(t, err)
			require.Len(t, results, tt.wantCount)
			for i, r := range results {
				assert.Equal(t, fmt.Sprintf("Result %d", i+1), r.Title, "order must follow provider rank")
			}
		})
	}
}

func TestGoogleCSEClient_Search_MissingItems(t *testing.T) {
	srv := newTestServer(t, jsonHandler(map[string]interface{}{
		"kind":              "customsearch#search",
		"searchInformation": map[string]string{"totalResults": "0"},
	}))
	client := NewGoogleCSEClient("k", "cx", srv.URL, time.Second)

	results, err := client.Search(context.Background(), "asdkjasdlkj")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGoogleCSEClient_Search_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"quota exceeded", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429}}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items": [`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			client := NewGoogleCSEClient("k", "cx", srv.URL, time.Second)

			var results []SearchResult
			var err error
			assert.NotPanics(t, func() {
				results, err = client.Search(context.Background(), "cpf")
			})

			assert.ErrorIs(t, err, ErrSearchUnavailable)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestGoogleCSEClient_Search_ConnectionError(t *testing.T) {
	client := NewGoogleCSEClient("secret-key", "cx", "http://127.0.0.1:1", time.Second)

	results, err := client.Search(context.Background(), "cpf")

	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.Empty(t, results)
	assert.NotContains(t, err.Error(), "secret-key", "transport errors must not leak the API key")
}
