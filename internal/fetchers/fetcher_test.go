package fetchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "Apple", CompanyName("AAPL"))
	assert.Equal(t, "Apple", CompanyName("aapl"))
	assert.Equal(t, "NVIDIA", CompanyName("NVDA"))
	assert.Equal(t, "ZZZZ", CompanyName("ZZZZ")) // unknown tickers pass through
}

func TestMentionsTicker(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ticker string
		want   bool
	}{
		{"bare symbol", "AAPL beat earnings estimates", "AAPL", true},
		{"lowercase symbol", "loaded up on aapl calls today", "AAPL", true},
		{"cashtag", "$TSLA to the moon", "TSLA", true},
		{"company name", "Apple announces record quarter", "AAPL", true},
		{"no mention", "market closed flat today", "AAPL", false},
		{"symbol inside word", "check the metadata field", "META", false},
		{"symbol at end", "I am all in on NVDA", "NVDA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MentionsTicker(tt.text, tt.ticker))
		})
	}
}

func TestInRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, inRange(start, start, end), "start is inclusive")
	assert.True(t, inRange(start.Add(time.Hour), start, end))
	assert.False(t, inRange(end, start, end), "end is exclusive")
	assert.False(t, inRange(start.Add(-time.Second), start, end))
}

func TestNewItemID(t *testing.T) {
	assert.Equal(t, "guid-1", newItemID("guid-1", "fallback"))
	assert.Equal(t, "fallback", newItemID("", "fallback"))
	assert.NotEmpty(t, newItemID("", ""), "falls back to a generated ID")
}
