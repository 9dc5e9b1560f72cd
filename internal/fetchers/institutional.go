package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

const (
	defaultAlphaVantageURL = "https://www.alphavantage.co/query"
	defaultNewsAPIURL      = "https://newsapi.org/v2/everything"

	// Alpha Vantage timestamps look like 20240115T093000
	alphaVantageTimeLayout = "20060102T150405"
)

// InstitutionalFetcher pulls professional financial news coverage.
// Alpha Vantage is the primary source; NewsAPI serves as a backup when
// Alpha Vantage yields nothing for the window.
type InstitutionalFetcher struct {
	httpClient      *http.Client
	limiter         *rate.Limiter
	alphaVantageKey string
	newsAPIKey      string
	alphaVantageURL string
	newsAPIURL      string
	log             *logger.Logger
}

// NewInstitutionalFetcher creates an institutional news fetcher.
// Either key may be empty; Fetch fails only when both are.
func NewInstitutionalFetcher(alphaVantageKey, newsAPIKey string) *InstitutionalFetcher {
	return &InstitutionalFetcher{
		httpClient:      newHTTPClient(),
		limiter:         rate.NewLimiter(rate.Every(time.Second), 1),
		alphaVantageKey: alphaVantageKey,
		newsAPIKey:      newsAPIKey,
		alphaVantageURL: defaultAlphaVantageURL,
		newsAPIURL:      defaultNewsAPIURL,
		log:             logger.Get().With("fetcher", "institutional"),
	}
}

// Source identifies this fetcher
func (f *InstitutionalFetcher) Source() sentiment.Source {
	return sentiment.SourceInstitutional
}

// Fetch returns institutional news for the ticker within [start, end)
func (f *InstitutionalFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if f.alphaVantageKey == "" && f.newsAPIKey == "" {
		return nil, errors.NewFetchError(string(sentiment.SourceInstitutional), errors.ErrMissingCredential)
	}

	var items []sentiment.RawItem
	var avErr error

	if f.alphaVantageKey != "" {
		items, avErr = f.fetchAlphaVantage(ctx, ticker, start, end)
		if avErr != nil {
			f.log.Warnw("Alpha Vantage fetch failed", "ticker", ticker, "error", avErr)
		}
	}

	// Backup path: only when the primary produced nothing.
	if len(items) == 0 && f.newsAPIKey != "" {
		backup, err := f.fetchNewsAPI(ctx, ticker, start, end)
		if err != nil {
			// The backup failing only degrades the source when the
			// primary did not legitimately return an empty window.
			if avErr != nil || f.alphaVantageKey == "" {
				return nil, errors.NewFetchError(string(sentiment.SourceInstitutional), err)
			}
			f.log.Warnw("NewsAPI fetch failed", "ticker", ticker, "error", err)
		}
		items = backup
	}

	if len(items) == 0 && avErr != nil && f.newsAPIKey == "" {
		return nil, errors.NewFetchError(string(sentiment.SourceInstitutional), avErr)
	}

	f.log.Debugw("Institutional fetch complete", "ticker", ticker, "items", len(items))
	return items, nil
}

// Alpha Vantage NEWS_SENTIMENT response structures
type alphaVantageResponse struct {
	Feed []alphaVantageArticle `json:"feed"`
}

type alphaVantageArticle struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	SourceName    string `json:"source"`
}

func (f *InstitutionalFetcher) fetchAlphaVantage(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"function":  {"NEWS_SENTIMENT"},
		"tickers":   {ticker},
		"time_from": {start.UTC().Format(alphaVantageTimeLayout)},
		"apikey":    {f.alphaVantageKey},
	}

	var response alphaVantageResponse
	if err := f.getJSON(ctx, f.alphaVantageURL+"?"+query.Encode(), &response); err != nil {
		return nil, err
	}

	var items []sentiment.RawItem
	for _, article := range response.Feed {
		ts, err := time.Parse(alphaVantageTimeLayout, article.TimePublished)
		if err != nil {
			f.log.Warnw("Unparseable time_published", "value", article.TimePublished)
			continue
		}
		ts = ts.UTC()
		if !inRange(ts, start, end) {
			continue
		}

		items = append(items, sentiment.RawItem{
			ID:        newItemID(article.URL),
			Source:    sentiment.SourceInstitutional,
			Ticker:    ticker,
			Timestamp: ts,
			Text:      article.Title + " " + article.Summary,
			URL:       article.URL,
			Author:    article.SourceName,
		})
	}

	return items, nil
}

// NewsAPI /v2/everything response structures
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

func (f *InstitutionalFetcher) fetchNewsAPI(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"q":        {fmt.Sprintf("%s OR %s", ticker, CompanyName(ticker))},
		"from":     {start.UTC().Format("2006-01-02")},
		"to":       {end.UTC().Format("2006-01-02")},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {"100"},
		"apiKey":   {f.newsAPIKey},
	}

	var response newsAPIResponse
	if err := f.getJSON(ctx, f.newsAPIURL+"?"+query.Encode(), &response); err != nil {
		return nil, err
	}

	var items []sentiment.RawItem
	for _, article := range response.Articles {
		ts := article.PublishedAt.UTC()
		if !inRange(ts, start, end) {
			continue
		}

		items = append(items, sentiment.RawItem{
			ID:        newItemID(article.URL),
			Source:    sentiment.SourceInstitutional,
			Ticker:    ticker,
			Timestamp: ts,
			Text:      article.Title + " " + article.Description,
			URL:       article.URL,
			Author:    article.Source.Name,
		})
	}

	return items, nil
}

// getJSON performs a GET and decodes the JSON body, mapping rate-limit
// and auth statuses to their sentinel errors.
func (f *InstitutionalFetcher) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(errors.ErrMissingCredential, "status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
