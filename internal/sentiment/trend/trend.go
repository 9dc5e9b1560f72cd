// Package trend buckets scored items into fixed time windows and
// produces the series rendered as the dashboard's time chart.
package trend

import (
	"sort"
	"time"

	"tickerpulse/internal/domain/sentiment"
)

// Build buckets [start, end) into contiguous, non-overlapping windows
// of the given length; the final window is shortened when the range
// does not divide evenly. Every bucket in range appears in the output,
// ordered by window start ascending. Empty buckets carry an explicit
// neutral 0.0 rather than a carried-forward value, keeping the series
// deterministic and the chart x-axis evenly spaced.
func Build(items []sentiment.ScoredItem, window time.Duration, start, end time.Time) sentiment.TrendSeries {
	if window <= 0 || !end.After(start) {
		return sentiment.TrendSeries{}
	}

	bucketCount := int((end.Sub(start) + window - 1) / window)
	series := make(sentiment.TrendSeries, bucketCount)

	for i := 0; i < bucketCount; i++ {
		ws := start.Add(time.Duration(i) * window)
		we := ws.Add(window)
		if we.After(end) {
			we = end
		}
		series[i] = sentiment.TrendPoint{WindowStart: ws, WindowEnd: we}
	}

	sums := make([]float64, bucketCount)
	for _, item := range items {
		ts := item.Timestamp
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		idx := int(ts.Sub(start) / window)
		sums[idx] += item.Sentiment
		series[idx].ItemCount++
	}

	for i := range series {
		if series[i].ItemCount > 0 {
			series[i].AggregateScore = sums[i] / float64(series[i].ItemCount)
		}
	}

	return series
}

// SortItems orders items by timestamp ascending; fetchers return
// source-specific orderings.
func SortItems(items []sentiment.ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
}
