// Package api serves the dashboard's read-only HTTP interface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

const (
	defaultLookbackDays = 7
	maxLookbackDays     = 90

	minTrendWindow = time.Minute
	maxTrendWindow = 24 * time.Hour
)

// SnapshotProvider is what the handlers need from the pipeline.
// A zero window selects the configured default bucket width.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*sentiment.Snapshot, error)
}

// Handlers serves the dashboard endpoints
type Handlers struct {
	provider SnapshotProvider
	log      *logger.Logger
}

// NewHandlers creates the dashboard handlers
func NewHandlers(provider SnapshotProvider) *Handlers {
	return &Handlers{
		provider: provider,
		log:      logger.Get().With("component", "api"),
	}
}

// GetSentiment returns the full snapshot for a ticker:
// GET /api/v1/sentiment/{ticker}?days=7
func (h *Handlers) GetSentiment(w http.ResponseWriter, r *http.Request) {
	ticker, days, window, err := parseTickerQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.snapshot(r.Context(), ticker, days, window)
	if err != nil {
		h.writeSnapshotError(w, r, ticker, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// trendResponse narrows a snapshot to what the chart needs
type trendResponse struct {
	Ticker     string                `json:"ticker"`
	RangeStart time.Time             `json:"range_start"`
	RangeEnd   time.Time             `json:"range_end"`
	Window     time.Duration         `json:"window"`
	Trend      sentiment.TrendSeries `json:"trend"`
	NoData     bool                  `json:"no_data"`
	AsOf       time.Time             `json:"as_of"`
}

// GetTrend returns only the bucketed series for a ticker:
// GET /api/v1/trend/{ticker}?days=7&window=1h
func (h *Handlers) GetTrend(w http.ResponseWriter, r *http.Request) {
	ticker, days, window, err := parseTickerQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.snapshot(r.Context(), ticker, days, window)
	if err != nil {
		h.writeSnapshotError(w, r, ticker, err)
		return
	}

	writeJSON(w, http.StatusOK, trendResponse{
		Ticker:     snap.Ticker,
		RangeStart: snap.RangeStart,
		RangeEnd:   snap.RangeEnd,
		Window:     snap.Window,
		Trend:      snap.Trend,
		NoData:     snap.Overall.NoData,
		AsOf:       snap.AsOf,
	})
}

func (h *Handlers) snapshot(ctx context.Context, ticker string, days int, window time.Duration) (*sentiment.Snapshot, error) {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	return h.provider.Snapshot(ctx, ticker, start, end, window)
}

func (h *Handlers) writeSnapshotError(w http.ResponseWriter, r *http.Request, ticker string, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	case errors.Is(err, errors.ErrRateLimited), errors.Is(err, errors.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "sources temporarily unavailable")
	default:
		h.log.ErrorWithContext(r.Context(), err, map[string]string{
			"ticker":   ticker,
			"endpoint": r.URL.Path,
		})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseTickerQuery validates the path ticker and the days and window
// query parameters. A missing window comes back as zero, which the
// pipeline resolves to its configured default.
func parseTickerQuery(r *http.Request) (ticker string, days int, window time.Duration, err error) {
	ticker = strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	if ticker == "" || len(ticker) > 10 {
		return "", 0, 0, errors.Wrap(errors.ErrInvalidInput, "ticker must be 1-10 characters")
	}
	for _, c := range ticker {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '.' && c != '-' {
			return "", 0, 0, errors.Wrap(errors.ErrInvalidInput, "ticker contains invalid characters")
		}
	}

	days = defaultLookbackDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxLookbackDays {
			return "", 0, 0, errors.Wrapf(errors.ErrInvalidInput, "days must be 1-%d", maxLookbackDays)
		}
	}

	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = time.ParseDuration(raw)
		if err != nil || window < minTrendWindow || window > maxTrendWindow {
			return "", 0, 0, errors.Wrapf(errors.ErrInvalidInput, "window must be a duration between %s and %s", minTrendWindow, maxTrendWindow)
		}
	}

	return ticker, days, window, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
