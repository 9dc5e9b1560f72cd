// Package fetchers pulls raw ticker mentions from external sources.
// Each fetcher is read-only and independent, so the pipeline can fan
// them out concurrently without coordination; a failing fetcher
// degrades to zero items for its source instead of aborting a refresh.
package fetchers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tickerpulse/internal/domain/sentiment"
)

// Fetcher retrieves raw mentions of a ticker within [start, end).
// Implementations fail with *errors.FetchError on network, auth, or
// rate-limit problems.
type Fetcher interface {
	// Source identifies which data source this fetcher serves
	Source() sentiment.Source

	// Fetch returns raw items whose timestamps fall in [start, end)
	Fetch(ctx context.Context, ticker string, start, end time.Time) ([]sentiment.RawItem, error)
}

const (
	requestTimeout = 30 * time.Second
	userAgent      = "tickerpulse/1.0"
)

// newHTTPClient builds the client all fetchers share settings for
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// companyNames maps tech tickers to the company names search APIs
// respond better to.
var companyNames = map[string]string{
	"AAPL":  "Apple",
	"NVDA":  "NVIDIA",
	"MSFT":  "Microsoft",
	"TSLA":  "Tesla",
	"AMZN":  "Amazon",
	"GOOGL": "Google",
	"META":  "Meta",
	"NFLX":  "Netflix",
}

// CompanyName returns the company name for a ticker, or the ticker itself
func CompanyName(ticker string) string {
	if name, ok := companyNames[strings.ToUpper(ticker)]; ok {
		return name
	}
	return ticker
}

// MentionsTicker reports whether text references the ticker, either as
// the bare symbol, a cashtag, or the company name.
func MentionsTicker(text, ticker string) bool {
	upper := strings.ToUpper(text)
	symbol := strings.ToUpper(ticker)

	if containsWord(upper, symbol) || strings.Contains(upper, "$"+symbol) {
		return true
	}
	return strings.Contains(upper, strings.ToUpper(CompanyName(ticker)))
}

// containsWord matches symbol as a whole word so "META" does not match
// inside "METADATA".
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordRune(text[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(text) || !isWordRune(text[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(word)
		if idx >= len(text) {
			return false
		}
	}
}

func isWordRune(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// inRange reports whether ts falls within [start, end)
func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && ts.Before(end)
}
