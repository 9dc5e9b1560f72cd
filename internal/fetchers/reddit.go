package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// RedditFetcher pulls ticker mentions from Reddit via the OAuth API.
// Defaults to r/wallstreetbets, the richest retail-sentiment firehose.
type RedditFetcher struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	clientID     string
	clientSecret string
	subreddits   []string
	log          *logger.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditFetcher creates a Reddit fetcher with OAuth credentials
func NewRedditFetcher(clientID, clientSecret string, subreddits []string) *RedditFetcher {
	if len(subreddits) == 0 {
		subreddits = []string{"wallstreetbets"}
	}
	return &RedditFetcher{
		httpClient:   newHTTPClient(),
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		clientID:     clientID,
		clientSecret: clientSecret,
		subreddits:   subreddits,
		log:          logger.Get().With("fetcher", "reddit"),
	}
}

// Source identifies this fetcher
func (f *RedditFetcher) Source() sentiment.Source {
	return sentiment.SourceReddit
}

// Reddit API OAuth response
type redditOAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// Reddit API post listing response
type redditListingResponse struct {
	Data struct {
		Children []struct {
			Data redditPostData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPostData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

// Fetch searches tracked subreddits for posts mentioning the ticker
func (f *RedditFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error) {
	if f.clientID == "" || f.clientSecret == "" {
		return nil, errors.NewFetchError(string(sentiment.SourceReddit), errors.ErrMissingCredential)
	}

	if err := f.ensureToken(ctx); err != nil {
		return nil, errors.NewFetchError(string(sentiment.SourceReddit), err)
	}

	var items []sentiment.RawItem
	for _, subreddit := range f.subreddits {
		posts, err := f.searchPosts(ctx, subreddit, ticker)
		if err != nil {
			return nil, errors.NewFetchError(string(sentiment.SourceReddit), err)
		}

		for _, post := range posts {
			ts := time.Unix(int64(post.CreatedUTC), 0).UTC()
			if !inRange(ts, start, end) {
				continue
			}

			// The search index matches loosely; require the ticker to
			// actually appear in the title or body.
			text := post.Title + " " + post.Selftext
			if !MentionsTicker(text, ticker) {
				continue
			}

			items = append(items, sentiment.RawItem{
				ID:        newItemID(post.ID, uuid.NewString()),
				Source:    sentiment.SourceReddit,
				Ticker:    ticker,
				Timestamp: ts,
				Text:      text,
				URL:       "https://www.reddit.com" + post.Permalink,
				Author:    post.Author,
			})
		}
	}

	f.log.Debugw("Reddit fetch complete", "ticker", ticker, "items", len(items))
	return items, nil
}

// ensureToken refreshes the OAuth token when missing or expired
func (f *RedditFetcher) ensureToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.accessToken != "" && time.Now().Before(f.tokenExpiry) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://www.reddit.com/api/v1/access_token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return errors.Wrap(err, "create OAuth request")
	}

	req.SetBasicAuth(f.clientID, f.clientSecret)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "Reddit OAuth request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Reddit OAuth failed with status %d: %s", resp.StatusCode, string(body))
	}

	var oauthResp redditOAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return errors.Wrap(err, "decode OAuth response")
	}

	f.accessToken = oauthResp.AccessToken
	f.tokenExpiry = time.Now().Add(time.Duration(oauthResp.ExpiresIn) * time.Second)

	f.log.Debugw("Reddit OAuth token refreshed", "expires_in", oauthResp.ExpiresIn)
	return nil
}

// searchPosts queries one subreddit's search endpoint for the ticker
func (f *RedditFetcher) searchPosts(ctx context.Context, subreddit, ticker string) ([]redditPostData, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"q":           {ticker},
		"restrict_sr": {"1"},
		"sort":        {"new"},
		"t":           {"month"},
		"limit":       {"100"},
	}
	endpoint := fmt.Sprintf("https://oauth.reddit.com/r/%s/search?%s", subreddit, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create Reddit search request")
	}

	f.mu.Lock()
	req.Header.Set("Authorization", "Bearer "+f.accessToken)
	f.mu.Unlock()
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Reddit search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.ErrRateLimited
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.Wrapf(errors.ErrMissingCredential, "Reddit API status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Reddit API returned status %d: %s", resp.StatusCode, string(body))
	}

	var listing redditListingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, errors.Wrap(err, "decode Reddit search response")
	}

	posts := make([]redditPostData, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
