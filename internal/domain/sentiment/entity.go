package sentiment

import "time"

// Source identifies where a text mention came from
type Source string

const (
	SourceNews          Source = "news"
	SourceReddit        Source = "reddit"
	SourceInstitutional Source = "institutional"
	SourceSocial        Source = "social"
)

// Sources lists every known source in a stable order
var Sources = []Source{SourceNews, SourceReddit, SourceInstitutional, SourceSocial}

// String returns the source name
func (s Source) String() string {
	return string(s)
}

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	switch s {
	case SourceNews, SourceReddit, SourceInstitutional, SourceSocial:
		return true
	}
	return false
}

// RawItem is one text mention of a ticker as produced by a fetcher.
// Immutable; consumed exactly once by the scoring stage.
type RawItem struct {
	ID        string    `json:"id" ch:"id"`
	Source    Source    `json:"source" ch:"source"`
	Ticker    string    `json:"ticker" ch:"ticker"`
	Timestamp time.Time `json:"timestamp" ch:"timestamp"`
	Text      string    `json:"text" ch:"text"`
	URL       string    `json:"url,omitempty" ch:"url"`
	Author    string    `json:"author,omitempty" ch:"author"`
}

// ScoredItem is a RawItem with its sentiment score attached
type ScoredItem struct {
	RawItem
	Sentiment float64 `json:"sentiment" ch:"sentiment"` // -1 to 1
}

// SourceSummary holds per-source aggregate statistics, recomputed on
// every refresh. The three ratios sum to 1.0 when ItemCount > 0.
type SourceSummary struct {
	Source        Source  `json:"source"`
	MeanSentiment float64 `json:"mean_sentiment"`
	ItemCount     int     `json:"item_count"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
}

// WeightConfig maps sources to non-negative combination weights.
// Weights need not sum to 1; the aggregator normalizes over the
// sources that actually produced items.
type WeightConfig map[Source]float64

// Weight returns the configured weight for a source, 0 if absent
func (w WeightConfig) Weight(s Source) float64 {
	return w[s]
}

// OverallSentiment is the combined cross-source reading for one ticker
type OverallSentiment struct {
	Ticker        string                   `json:"ticker"`
	WeightedScore float64                  `json:"weighted_score"` // -1 to 1
	PerSource     map[Source]SourceSummary `json:"per_source"`
	NoData        bool                     `json:"no_data"`
	AsOf          time.Time                `json:"as_of"`
}

// TrendPoint is one time bucket of the sentiment trend
type TrendPoint struct {
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
	AggregateScore float64   `json:"aggregate_score"`
	ItemCount      int       `json:"item_count"`
}

// TrendSeries is ordered by WindowStart ascending and covers every
// bucket in the requested range, empty buckets included, so chart
// x-axes stay evenly spaced.
type TrendSeries []TrendPoint

// Snapshot is the full dashboard payload for one refresh
type Snapshot struct {
	Ticker       string            `json:"ticker"`
	RangeStart   time.Time         `json:"range_start"`
	RangeEnd     time.Time         `json:"range_end"`
	Window       time.Duration     `json:"window"`
	Overall      OverallSentiment  `json:"overall"`
	Trend        TrendSeries       `json:"trend"`
	SourceErrors map[Source]string `json:"source_errors,omitempty"`
	ItemCount    int               `json:"item_count"`
	AsOf         time.Time         `json:"as_of"`
}

// NoData reports whether the snapshot carries no items at all
func (s *Snapshot) NoData() bool {
	return s.Overall.NoData
}
