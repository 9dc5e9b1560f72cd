package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
)

type stubProvider struct {
	snap *sentiment.Snapshot
	err  error

	gotTicker string
	gotStart  time.Time
	gotEnd    time.Time
	gotWindow time.Duration
}

func (s *stubProvider) Snapshot(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*sentiment.Snapshot, error) {
	s.gotTicker = ticker
	s.gotStart = start
	s.gotEnd = end
	s.gotWindow = window
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func newTestRouter(provider SnapshotProvider) http.Handler {
	h := NewHandlers(provider)
	r := chi.NewRouter()
	r.Get("/api/v1/sentiment/{ticker}", h.GetSentiment)
	r.Get("/api/v1/trend/{ticker}", h.GetTrend)
	return r
}

func sampleSnapshot(ticker string) *sentiment.Snapshot {
	now := time.Now().UTC()
	return &sentiment.Snapshot{
		Ticker:     ticker,
		RangeStart: now.Add(-24 * time.Hour),
		RangeEnd:   now,
		Window:     time.Hour,
		Overall: sentiment.OverallSentiment{
			Ticker:        ticker,
			WeightedScore: 0.42,
			AsOf:          now,
		},
		Trend: sentiment.TrendSeries{
			{WindowStart: now.Add(-2 * time.Hour), WindowEnd: now.Add(-time.Hour), AggregateScore: 0.3, ItemCount: 2},
			{WindowStart: now.Add(-time.Hour), WindowEnd: now, AggregateScore: 0.5, ItemCount: 1},
		},
		ItemCount: 3,
		AsOf:      now,
	}
}

func TestGetSentiment(t *testing.T) {
	provider := &stubProvider{snap: sampleSnapshot("AAPL")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment/aapl?days=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", provider.gotTicker, "ticker is uppercased")
	assert.InDelta(t, 72*time.Hour, provider.gotEnd.Sub(provider.gotStart), float64(time.Second))

	var snap sentiment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 0.42, snap.Overall.WeightedScore)
}

func TestGetSentiment_DefaultDays(t *testing.T) {
	provider := &stubProvider{snap: sampleSnapshot("NVDA")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment/NVDA", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 7*24*time.Hour, provider.gotEnd.Sub(provider.gotStart), float64(time.Second))
}

func TestGetSentiment_BadRequests(t *testing.T) {
	router := newTestRouter(&stubProvider{snap: sampleSnapshot("AAPL")})

	for _, path := range []string{
		"/api/v1/sentiment/AAPL?days=0",
		"/api/v1/sentiment/AAPL?days=999",
		"/api/v1/sentiment/AAPL?days=abc",
		"/api/v1/sentiment/TOOLONGTICKER",
		"/api/v1/sentiment/BAD!CHARS",
		"/api/v1/trend/AAPL?window=xyz",
		"/api/v1/trend/AAPL?window=10s",
		"/api/v1/trend/AAPL?window=48h",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestGetSentiment_ProviderError(t *testing.T) {
	router := newTestRouter(&stubProvider{err: errors.ErrInternal})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment/AAPL", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTrend(t *testing.T) {
	provider := &stubProvider{snap: sampleSnapshot("TSLA")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend/TSLA", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp trendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TSLA", resp.Ticker)
	assert.Len(t, resp.Trend, 2)
	assert.False(t, resp.NoData)
}

func TestGetTrend_WindowParam(t *testing.T) {
	provider := &stubProvider{snap: sampleSnapshot("TSLA")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend/TSLA?window=30m", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30*time.Minute, provider.gotWindow)
}

func TestGetTrend_DefaultWindow(t *testing.T) {
	provider := &stubProvider{snap: sampleSnapshot("TSLA")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend/TSLA", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, provider.gotWindow, "no window parameter defers to the configured default")
}

func TestGetTrend_NoData(t *testing.T) {
	snap := sampleSnapshot("ZZZZ")
	snap.Trend = nil
	snap.ItemCount = 0
	snap.Overall.NoData = true
	snap.Overall.WeightedScore = 0

	router := newTestRouter(&stubProvider{snap: snap})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend/ZZZZ", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp trendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.NoData, "empty data is an explicit state, not an error")
}
