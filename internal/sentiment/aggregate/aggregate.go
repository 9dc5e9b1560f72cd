// Package aggregate combines per-item sentiment scores into per-source
// summaries and a single weighted cross-source reading.
package aggregate

import (
	"time"

	"tickerpulse/internal/domain/sentiment"
)

// DefaultNeutralityBand is the score range around zero treated as
// neither positive nor negative for ratio computations.
const DefaultNeutralityBand = 0.1

// Aggregator combines scored items under a fixed weight configuration
type Aggregator struct {
	weights sentiment.WeightConfig
	band    float64
}

// New creates an aggregator. A non-positive band falls back to the default.
func New(weights sentiment.WeightConfig, band float64) *Aggregator {
	if band <= 0 {
		band = DefaultNeutralityBand
	}
	return &Aggregator{weights: weights, band: band}
}

// Aggregate combines scored items into an overall reading for a ticker.
//
// Per source: arithmetic mean plus positive/negative/neutral ratios
// against the neutrality band. Across sources: weighted mean over
// sources that produced at least one item; zero-item sources are
// excluded from the denominator rather than diluting the score as
// fake neutrals. If every source is empty the result is 0.0 with
// NoData set, so callers can distinguish "confidently neutral" from
// "nothing to read".
func (a *Aggregator) Aggregate(items []sentiment.ScoredItem, ticker string, asOf time.Time) sentiment.OverallSentiment {
	bySource := make(map[sentiment.Source][]sentiment.ScoredItem)
	for _, item := range items {
		bySource[item.Source] = append(bySource[item.Source], item)
	}

	perSource := make(map[sentiment.Source]sentiment.SourceSummary, len(sentiment.Sources))
	for _, src := range sentiment.Sources {
		perSource[src] = a.summarize(src, bySource[src])
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for _, src := range sentiment.Sources {
		summary := perSource[src]
		if summary.ItemCount == 0 {
			continue
		}
		w := a.weights.Weight(src)
		weightedSum += w * summary.MeanSentiment
		weightTotal += w
	}

	overall := sentiment.OverallSentiment{
		Ticker:    ticker,
		PerSource: perSource,
		AsOf:      asOf,
	}

	if weightTotal > 0 {
		overall.WeightedScore = weightedSum / weightTotal
	}
	if len(items) == 0 {
		overall.NoData = true
	}

	return overall
}

// summarize computes one source's statistics. An empty group yields
// mean 0.0, count 0, and all ratios 0.
func (a *Aggregator) summarize(src sentiment.Source, items []sentiment.ScoredItem) sentiment.SourceSummary {
	summary := sentiment.SourceSummary{Source: src}
	if len(items) == 0 {
		return summary
	}

	sum := 0.0
	var positive, negative int
	for _, item := range items {
		sum += item.Sentiment
		switch {
		case item.Sentiment > a.band:
			positive++
		case item.Sentiment < -a.band:
			negative++
		}
	}

	n := len(items)
	summary.ItemCount = n
	summary.MeanSentiment = sum / float64(n)
	summary.PositiveRatio = float64(positive) / float64(n)
	summary.NegativeRatio = float64(negative) / float64(n)
	summary.NeutralRatio = float64(n-positive-negative) / float64(n)

	return summary
}
