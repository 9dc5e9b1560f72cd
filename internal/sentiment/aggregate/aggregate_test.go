package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/domain/sentiment"
)

var testTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func item(src sentiment.Source, score float64) sentiment.ScoredItem {
	return sentiment.ScoredItem{
		RawItem:   sentiment.RawItem{Source: src, Ticker: "AAPL", Timestamp: testTime},
		Sentiment: score,
	}
}

func weights() sentiment.WeightConfig {
	return sentiment.WeightConfig{
		sentiment.SourceNews:   0.7,
		sentiment.SourceReddit: 0.3,
	}
}

func TestAggregate_WeightedMean(t *testing.T) {
	a := New(weights(), 0.1)

	items := []sentiment.ScoredItem{
		item(sentiment.SourceNews, 0.7),
		item(sentiment.SourceReddit, -0.2),
	}

	got := a.Aggregate(items, "AAPL", testTime)

	// (0.7*0.7 + 0.3*-0.2) / (0.7 + 0.3) = 0.43
	assert.InDelta(t, 0.43, got.WeightedScore, 1e-9)
	assert.False(t, got.NoData)
	assert.Equal(t, "AAPL", got.Ticker)
}

func TestAggregate_EmptySourceExcludedFromDenominator(t *testing.T) {
	a := New(weights(), 0.1)

	// Reddit produced nothing: its weight must not dilute the score.
	items := []sentiment.ScoredItem{
		item(sentiment.SourceNews, 0.5),
	}

	got := a.Aggregate(items, "AAPL", testTime)

	assert.InDelta(t, 0.5, got.WeightedScore, 1e-9,
		"a silent source is excluded, not counted as neutral")
	assert.Equal(t, 0, got.PerSource[sentiment.SourceReddit].ItemCount)
}

func TestAggregate_AllEmpty(t *testing.T) {
	a := New(weights(), 0.1)

	got := a.Aggregate(nil, "AAPL", testTime)

	assert.True(t, got.NoData)
	assert.Zero(t, got.WeightedScore)
	require.Len(t, got.PerSource, len(sentiment.Sources))
	for _, summary := range got.PerSource {
		assert.Equal(t, 0, summary.ItemCount)
	}
}

func TestAggregate_PerSourceSummaries(t *testing.T) {
	a := New(weights(), 0.1)

	items := []sentiment.ScoredItem{
		item(sentiment.SourceNews, 0.8),  // positive
		item(sentiment.SourceNews, -0.5), // negative
		item(sentiment.SourceNews, 0.05), // inside the neutrality band
		item(sentiment.SourceNews, 0.0),  // neutral
	}

	got := a.Aggregate(items, "AAPL", testTime)
	news := got.PerSource[sentiment.SourceNews]

	assert.Equal(t, 4, news.ItemCount)
	assert.InDelta(t, 0.0875, news.MeanSentiment, 1e-9)
	assert.InDelta(t, 0.25, news.PositiveRatio, 1e-9)
	assert.InDelta(t, 0.25, news.NegativeRatio, 1e-9)
	assert.InDelta(t, 0.50, news.NeutralRatio, 1e-9)
	assert.InDelta(t, 1.0, news.PositiveRatio+news.NegativeRatio+news.NeutralRatio, 1e-9)
}

func TestAggregate_NeutralityBand(t *testing.T) {
	// A wider band reclassifies a weak positive as neutral.
	narrow := New(weights(), 0.1)
	wide := New(weights(), 0.3)

	items := []sentiment.ScoredItem{item(sentiment.SourceNews, 0.2)}

	assert.InDelta(t, 1.0, narrow.Aggregate(items, "AAPL", testTime).PerSource[sentiment.SourceNews].PositiveRatio, 1e-9)
	assert.InDelta(t, 1.0, wide.Aggregate(items, "AAPL", testTime).PerSource[sentiment.SourceNews].NeutralRatio, 1e-9)
}

func TestAggregate_DefaultBand(t *testing.T) {
	a := New(weights(), 0)
	assert.Equal(t, DefaultNeutralityBand, a.band)
}

func TestAggregate_UnweightedSourceContributesNothing(t *testing.T) {
	// Social has no configured weight; its items set ItemCount but a
	// zero weight adds nothing to either side of the division.
	a := New(weights(), 0.1)

	items := []sentiment.ScoredItem{
		item(sentiment.SourceNews, 0.4),
		item(sentiment.SourceSocial, -0.9),
	}

	got := a.Aggregate(items, "AAPL", testTime)
	assert.InDelta(t, 0.4, got.WeightedScore, 1e-9)
}
