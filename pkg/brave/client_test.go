package brave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     string
		wantResults int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"query": {"original": "gold price"},
				"web": {"results": [
					{"title": "Gold rate today", "url": "https://example.com/gold", "description": "22k at a new high"},
					{"title": "Bullion news", "url": "https://example.com/bullion", "description": "markets"}
				]},
				"infobox": {"results": [{"label": "Gold", "long_desc": "Gold is trading at a record high."}]}
			}`,
			wantResults: 2,
		},
		{
			name:    "rate_limit",
			status:  http.StatusTooManyRequests,
			body:    `{"error": "rate limit exceeded"}`,
			wantErr: "unexpected status 429",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": "invalid token"}`,
			wantErr: "unexpected status 401",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/web/search", r.URL.Path)
				assert.Equal(t, "gold price", r.URL.Query().Get("q"))
				assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			resp, err := client.Search(context.Background(), "gold price")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, "gold price", resp.Query.Original)
			require.Len(t, resp.Web.Results, tt.wantResults)
			assert.Equal(t, "Gold rate today", resp.Web.Results[0].Title)
			require.NotNil(t, resp.Infobox)
			require.Len(t, resp.Infobox.Results, 1)
			assert.Equal(t, "Gold is trading at a record high.", resp.Infobox.Results[0].LongDesc)
		})
	}
}

func TestSearchOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		assert.Equal(t, "IN", r.URL.Query().Get("country"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"original":"q"},"web":{"results":[]}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.Search(context.Background(), "q", WithCount(3), WithCountry("IN"))
	require.NoError(t, err)
}

func TestSearchContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "q")
	assert.Error(t, err)
}

func TestRateLimiterThrottles(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"query":{"original":"q"},"web":{"results":[]}}`))
	}))
	defer srv.Close()

	// Burst of one with a near-zero refill: a second immediate call has
	// to wait, so a canceled context aborts it before the request fires.
	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0.0001, 1))

	_, err := client.Search(context.Background(), "q")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Search(ctx, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Equal(t, 1, calls)
}
