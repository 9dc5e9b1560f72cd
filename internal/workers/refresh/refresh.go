// Package refresh keeps watchlist snapshots warm and fires alerts when
// a ticker's weighted sentiment crosses the configured threshold.
package refresh

import (
	"context"
	"math"
	"time"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/internal/pipeline"
	"tickerpulse/internal/workers"
	"tickerpulse/pkg/errors"
)

// Alerter is notified when a watchlist ticker crosses the threshold
type Alerter interface {
	SendAlert(ctx context.Context, snap *sentiment.Snapshot) error
}

// Worker rebuilds the snapshot of every watchlist ticker on a schedule,
// so dashboard reads stay cache-hot between interactive requests.
type Worker struct {
	*workers.BaseWorker

	pipeline       *pipeline.Pipeline
	watchlist      []string
	lookback       time.Duration
	alerter        Alerter // nil disables alerting
	alertThreshold float64

	// lastAlerted deduplicates alerts: one per ticker per crossing,
	// re-armed when the score falls back inside the threshold.
	lastAlerted map[string]bool
}

// Config for the refresh worker
type Config struct {
	Interval       time.Duration
	Enabled        bool
	Watchlist      []string
	Lookback       time.Duration
	Alerter        Alerter
	AlertThreshold float64
}

// New creates a watchlist refresh worker
func New(p *pipeline.Pipeline, cfg Config) *Worker {
	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = 7 * 24 * time.Hour
	}

	return &Worker{
		BaseWorker:     workers.NewBaseWorker("watchlist-refresh", cfg.Interval, cfg.Enabled),
		pipeline:       p,
		watchlist:      cfg.Watchlist,
		lookback:       lookback,
		alerter:        cfg.Alerter,
		alertThreshold: cfg.AlertThreshold,
		lastAlerted:    make(map[string]bool),
	}
}

// Run rebuilds every watchlist ticker once. Per-ticker failures are
// logged and the rest of the list still refreshes.
func (w *Worker) Run(ctx context.Context) error {
	started := time.Now()
	end := time.Now().UTC()
	start := end.Add(-w.lookback)

	var lastErr error
	for _, ticker := range w.watchlist {
		if ctx.Err() != nil {
			w.Observe(time.Since(started), ctx.Err())
			return ctx.Err()
		}

		snap, err := w.pipeline.Rebuild(ctx, ticker, start, end, 0)
		if err != nil {
			w.Log().Errorw("Watchlist refresh failed", "ticker", ticker, "error", err)
			lastErr = err
			continue
		}

		w.maybeAlert(ctx, snap)
	}

	if lastErr != nil {
		w.Observe(time.Since(started), lastErr)
		return errors.Wrap(lastErr, "watchlist refresh incomplete")
	}

	w.Observe(time.Since(started), nil)
	return nil
}

func (w *Worker) maybeAlert(ctx context.Context, snap *sentiment.Snapshot) {
	if w.alerter == nil || w.alertThreshold <= 0 || snap.Overall.NoData {
		return
	}

	crossed := math.Abs(snap.Overall.WeightedScore) >= w.alertThreshold
	if !crossed {
		w.lastAlerted[snap.Ticker] = false
		return
	}
	if w.lastAlerted[snap.Ticker] {
		return
	}

	if err := w.alerter.SendAlert(ctx, snap); err != nil {
		w.Log().Warnw("Alert delivery failed", "ticker", snap.Ticker, "error", err)
		return
	}
	w.lastAlerted[snap.Ticker] = true
}
