package fetchers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// yahooFeedURL is the per-ticker headline feed used when no custom
// feeds are configured.
const yahooFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// NewsFetcher pulls financial news headlines from RSS feeds
type NewsFetcher struct {
	parser  *gofeed.Parser
	feeds   []string // market-wide feeds, filtered by ticker mention
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewNewsFetcher creates a news fetcher. extraFeeds are market-wide
// RSS URLs scanned in addition to the per-ticker Yahoo feed.
func NewNewsFetcher(extraFeeds []string) *NewsFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	return &NewsFetcher{
		parser:  parser,
		feeds:   extraFeeds,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		log:     logger.Get().With("fetcher", "news"),
	}
}

// Source identifies this fetcher
func (f *NewsFetcher) Source() sentiment.Source {
	return sentiment.SourceNews
}

// Fetch returns headlines mentioning the ticker within [start, end)
func (f *NewsFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	urls := append(
		[]string{fmt.Sprintf(yahooFeedURL, url.QueryEscape(ticker))},
		f.feeds...,
	)

	var items []sentiment.RawItem
	var lastErr error
	for _, feedURL := range urls {
		feedItems, err := f.fetchFeed(ctx, feedURL, ticker, start, end)
		if err != nil {
			f.log.Warnw("Feed fetch failed", "url", feedURL, "error", err)
			lastErr = err
			continue
		}
		items = append(items, feedItems...)
	}

	// Only fail when every feed failed; partial feeds still count.
	if len(items) == 0 && lastErr != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceNews), lastErr)
	}

	f.log.Debugw("News fetch complete", "ticker", ticker, "items", len(items))
	return items, nil
}

func (f *NewsFetcher) fetchFeed(ctx context.Context, feedURL, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "parse feed %s", feedURL)
	}

	var items []sentiment.RawItem
	for _, entry := range feed.Items {
		if entry.PublishedParsed == nil {
			continue
		}
		ts := entry.PublishedParsed.UTC()
		if !inRange(ts, start, end) {
			continue
		}

		text := entry.Title
		if entry.Description != "" {
			text += " " + entry.Description
		}
		if !MentionsTicker(text, ticker) {
			continue
		}

		items = append(items, sentiment.RawItem{
			ID:        newItemID(entry.GUID, entry.Link),
			Source:    sentiment.SourceNews,
			Ticker:    ticker,
			Timestamp: ts,
			Text:      text,
			URL:       entry.Link,
		})
	}

	return items, nil
}

// newItemID prefers a source-provided identifier, falling back to a
// random UUID for feeds that omit GUIDs.
func newItemID(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return uuid.NewString()
}
