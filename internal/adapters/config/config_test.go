package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/pkg/errors"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))
	return &cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, 0.7, cfg.Weights.News)
	assert.Equal(t, 0.3, cfg.Weights.Reddit)
	assert.Equal(t, 0.1, cfg.Weights.NeutralityBand)
	assert.Equal(t, time.Hour, cfg.Weights.TrendWindow)
	assert.Equal(t, []string{"AAPL", "NVDA", "MSFT", "TSLA"}, cfg.Workers.Watchlist)
	assert.Equal(t, 168*time.Hour, cfg.Workers.Lookback)
	assert.Equal(t, []string{"wallstreetbets"}, cfg.Sources.Subreddits)

	require.NoError(t, cfg.Validate())
}

func TestConfig_RejectsNegativeWeight(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Weights.Reddit = -0.3

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidWeight))

	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "REDDIT_WEIGHT", cfgErr.Field)
}

func TestConfig_RejectsBadNeutralityBand(t *testing.T) {
	for _, band := range []float64{-0.1, 1.0, 2.5} {
		cfg := defaultConfig(t)
		cfg.Weights.NeutralityBand = band

		err := cfg.Validate()
		require.Error(t, err, "band %v", band)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	}
}

func TestConfig_RejectsNonPositiveTrendWindow(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Weights.TrendWindow = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestConfig_RejectsPartialRedditCredentials(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Sources.RedditClientID = "id-only"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingCredential))
}

func TestTelegramConfig_Enabled(t *testing.T) {
	assert.False(t, TelegramConfig{}.Enabled())
	assert.False(t, TelegramConfig{BotToken: "tok"}.Enabled())
	assert.False(t, TelegramConfig{ChatID: 42}.Enabled())
	assert.True(t, TelegramConfig{BotToken: "tok", ChatID: 42}.Enabled())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
