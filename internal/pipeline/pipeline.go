// Package pipeline orchestrates one sentiment refresh: fan out to the
// fetchers, normalize and score every item, archive the batch, then
// aggregate and bucket into the dashboard snapshot.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/internal/fetchers"
	"tickerpulse/internal/metrics"
	"tickerpulse/internal/sentiment/aggregate"
	"tickerpulse/internal/sentiment/normalize"
	"tickerpulse/internal/sentiment/score"
	"tickerpulse/internal/sentiment/trend"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// Pipeline builds dashboard snapshots. Fetchers run concurrently; a
// failing source degrades to zero items and is reported in the
// snapshot's SourceErrors instead of aborting the refresh.
type Pipeline struct {
	fetchers    []fetchers.Fetcher
	scorer      *score.Scorer
	aggregator  *aggregate.Aggregator
	trendWindow time.Duration

	repo     sentiment.Repository    // nil disables archiving
	cache    sentiment.SnapshotCache // nil disables caching
	cacheTTL time.Duration

	log *logger.Logger
}

// Options configures optional pipeline collaborators
type Options struct {
	Repository  sentiment.Repository
	Cache       sentiment.SnapshotCache
	CacheTTL    time.Duration
	TrendWindow time.Duration
}

// New creates a pipeline over the given fetchers
func New(fs []fetchers.Fetcher, aggregator *aggregate.Aggregator, opts Options) *Pipeline {
	window := opts.TrendWindow
	if window <= 0 {
		window = time.Hour
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Pipeline{
		fetchers:    fs,
		scorer:      score.NewScorer(),
		aggregator:  aggregator,
		trendWindow: window,
		repo:        opts.Repository,
		cache:       opts.Cache,
		cacheTTL:    ttl,
		log:         logger.Get().With("component", "pipeline"),
	}
}

// resolveWindow falls back to the configured default bucket width
func (p *Pipeline) resolveWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return p.trendWindow
	}
	return window
}

// Snapshot returns the dashboard payload for a ticker, range, and trend
// bucket window (0 means the configured default), serving from cache
// when a fresh snapshot exists.
func (p *Pipeline) Snapshot(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*sentiment.Snapshot, error) {
	window = p.resolveWindow(window)

	if p.cache != nil {
		snap, err := p.cache.Get(ctx, ticker, start, end, window)
		switch {
		case err == nil:
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return snap, nil
		case errors.Is(err, errors.ErrNotFound):
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		default:
			metrics.CacheRequests.WithLabelValues("error").Inc()
			p.log.Warnw("Snapshot cache lookup failed", "ticker", ticker, "error", err)
		}
	}

	return p.Rebuild(ctx, ticker, start, end, window)
}

// Rebuild fetches, scores, and aggregates from scratch, bypassing the
// cache read but refreshing the cached entry on success.
func (p *Pipeline) Rebuild(ctx context.Context, ticker string, start, end time.Time, window time.Duration) (*sentiment.Snapshot, error) {
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty ticker")
	}
	if !end.After(start) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "range end must be after start")
	}
	window = p.resolveWindow(window)

	started := time.Now()

	raw, sourceErrs, err := p.fetchAll(ctx, ticker, start, end)
	if err != nil {
		// Only context cancellation aborts a refresh; a superseded
		// request must never publish a stale snapshot.
		return nil, err
	}

	scored := p.scoreAll(raw)

	if p.repo != nil && len(scored) > 0 {
		archiveStart := time.Now()
		archiveErr := p.repo.InsertItems(ctx, scored)
		metrics.RecordDBQuery("clickhouse", "insert_items", time.Since(archiveStart), archiveErr)
		if archiveErr != nil {
			// Archive failures degrade history, not the live snapshot.
			p.log.Warnw("Failed to archive scored items", "ticker", ticker, "error", archiveErr)
		}
	}

	// Live feeds only reach back a few days (RSS caps, API windows);
	// the archive backfills the older part of the requested range.
	if p.repo != nil {
		queryStart := time.Now()
		archived, archiveErr := p.repo.GetItems(ctx, ticker, start, end)
		metrics.RecordDBQuery("clickhouse", "get_items", time.Since(queryStart), archiveErr)
		if archiveErr != nil {
			p.log.Warnw("Archive lookup failed", "ticker", ticker, "error", archiveErr)
		} else {
			scored = mergeByID(scored, archived)
		}
	}

	asOf := time.Now().UTC()
	overall := p.aggregator.Aggregate(scored, ticker, asOf)

	trend.SortItems(scored)
	series := trend.Build(scored, window, start, end)

	snap := &sentiment.Snapshot{
		Ticker:       ticker,
		RangeStart:   start,
		RangeEnd:     end,
		Window:       window,
		Overall:      overall,
		Trend:        series,
		SourceErrors: sourceErrs,
		ItemCount:    len(scored),
		AsOf:         asOf,
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, snap, p.cacheTTL); err != nil {
			p.log.Warnw("Failed to cache snapshot", "ticker", ticker, "error", err)
		}
	}

	metrics.PipelineDuration.WithLabelValues(ticker).Observe(time.Since(started).Seconds())
	metrics.WeightedScore.WithLabelValues(ticker).Set(overall.WeightedScore)

	p.log.Infow("Snapshot rebuilt",
		"ticker", ticker,
		"items", len(scored),
		"weighted_score", overall.WeightedScore,
		"no_data", overall.NoData,
		"source_errors", len(sourceErrs),
		"duration", time.Since(started),
	)

	return snap, nil
}

// fetchAll runs every fetcher concurrently. Per-source failures are
// collected, not propagated; the only returned error is cancellation.
func (p *Pipeline) fetchAll(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, map[sentiment.Source]string, error) {
	g, gctx := errgroup.WithContext(ctx)

	perSource := make([][]sentiment.RawItem, len(p.fetchers))
	errsBySource := make([]error, len(p.fetchers))

	for i, f := range p.fetchers {
		i, f := i, f
		g.Go(func() error {
			fetchStart := time.Now()
			items, err := f.Fetch(gctx, ticker, start, end)
			metrics.RecordFetch(string(f.Source()), time.Since(fetchStart), len(items), err)

			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.log.Warnw("Source fetch failed", "source", f.Source(), "ticker", ticker, "error", err)
				errsBySource[i] = err
				return nil
			}

			perSource[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	var raw []sentiment.RawItem
	sourceErrs := make(map[sentiment.Source]string)
	for i, f := range p.fetchers {
		raw = append(raw, perSource[i]...)
		if errsBySource[i] != nil {
			sourceErrs[f.Source()] = errsBySource[i].Error()
		}
	}
	if len(sourceErrs) == 0 {
		sourceErrs = nil
	}

	return raw, sourceErrs, nil
}

// mergeByID appends archived items whose IDs are absent from the live
// batch. Live items win: they carry scores from the current lexicon.
func mergeByID(live, archived []sentiment.ScoredItem) []sentiment.ScoredItem {
	seen := make(map[string]struct{}, len(live))
	for _, item := range live {
		seen[item.ID] = struct{}{}
	}
	for _, item := range archived {
		if _, ok := seen[item.ID]; !ok {
			live = append(live, item)
		}
	}
	return live
}

// scoreAll normalizes and scores every raw item
func (p *Pipeline) scoreAll(raw []sentiment.RawItem) []sentiment.ScoredItem {
	scored := make([]sentiment.ScoredItem, 0, len(raw))
	for _, item := range raw {
		text := normalize.Normalize(item.Text)
		scored = append(scored, sentiment.ScoredItem{
			RawItem:   item,
			Sentiment: p.scorer.Score(text),
		})
		metrics.ItemsScored.WithLabelValues(string(item.Source)).Inc()
	}
	return scored
}
