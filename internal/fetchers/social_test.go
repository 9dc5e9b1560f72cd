package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
)

func TestSocialFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/TSLA.json", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"messages": [
				{
					"id": 101,
					"body": "TSLA calls printing today",
					"created_at": "2024-01-15T14:30:00Z",
					"user": {"username": "trader1"}
				},
				{
					"id": 102,
					"body": "old message",
					"created_at": "2023-12-01T00:00:00Z",
					"user": {"username": "trader2"}
				}
			]
		}`))
	}))
	defer server.Close()

	f := NewSocialFetcher()
	f.baseURL = server.URL

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	items, err := f.Fetch(context.Background(), "TSLA", start, end)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, sentiment.SourceSocial, items[0].Source)
	assert.Equal(t, "101", items[0].ID)
	assert.Equal(t, "trader1", items[0].Author)
	assert.Equal(t, "https://stocktwits.com/message/101", items[0].URL)
}

func TestSocialFetcher_UnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewSocialFetcher()
	f.baseURL = server.URL

	items, err := f.Fetch(context.Background(), "ZZZZ", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err, "unknown symbols are an empty source, not a failure")
	assert.Empty(t, items)
}

func TestSocialFetcher_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewSocialFetcher()
	f.baseURL = server.URL

	_, err := f.Fetch(context.Background(), "AAPL", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimited))
}
