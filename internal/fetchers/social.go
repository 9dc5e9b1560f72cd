package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

const defaultStockTwitsURL = "https://api.stocktwits.com/api/2/streams/symbol"

// SocialFetcher pulls short-form trader chatter from the public
// StockTwits symbol stream. No credentials required.
type SocialFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	log        *logger.Logger
}

// NewSocialFetcher creates a StockTwits fetcher
func NewSocialFetcher() *SocialFetcher {
	return &SocialFetcher{
		httpClient: newHTTPClient(),
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:    defaultStockTwitsURL,
		log:        logger.Get().With("fetcher", "social"),
	}
}

// Source identifies this fetcher
func (f *SocialFetcher) Source() sentiment.Source {
	return sentiment.SourceSocial
}

// StockTwits symbol stream response
type stockTwitsResponse struct {
	Messages []stockTwitsMessage `json:"messages"`
}

type stockTwitsMessage struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"` // 2024-01-15T09:30:00Z
	User      struct {
		Username string `json:"username"`
	} `json:"user"`
}

// Fetch returns stream messages for the ticker within [start, end)
func (f *SocialFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceSocial), err)
	}

	endpoint := fmt.Sprintf("%s/%s.json", f.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceSocial), err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceSocial), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.NewFetchError(string(sentiment.SourceSocial), errors.ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		// Unknown symbol on StockTwits is an empty source, not a failure.
		f.log.Debugw("Symbol not found on StockTwits", "ticker", ticker)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewFetchError(string(sentiment.SourceSocial),
			fmt.Errorf("StockTwits returned status %d: %s", resp.StatusCode, string(body)))
	}

	var response stockTwitsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceSocial), errors.Wrap(err, "decode response"))
	}

	var items []sentiment.RawItem
	for _, msg := range response.Messages {
		ts, err := time.Parse(time.RFC3339, msg.CreatedAt)
		if err != nil {
			f.log.Warnw("Unparseable created_at", "value", msg.CreatedAt)
			continue
		}
		ts = ts.UTC()
		if !inRange(ts, start, end) {
			continue
		}

		items = append(items, sentiment.RawItem{
			ID:        newItemID(strconv.FormatInt(msg.ID, 10)),
			Source:    sentiment.SourceSocial,
			Ticker:    ticker,
			Timestamp: ts,
			Text:      msg.Body,
			URL:       fmt.Sprintf("https://stocktwits.com/message/%d", msg.ID),
			Author:    msg.User.Username,
		})
	}

	f.log.Debugw("Social fetch complete", "ticker", ticker, "items", len(items))
	return items, nil
}
