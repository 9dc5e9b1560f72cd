package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"tickerpulse/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Sources       SourcesConfig
	Weights       WeightsConfig
	Telegram      TelegramConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"tickerpulse"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type ServerConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"sentiment"`
}

type RedisConfig struct {
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"1h"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SourcesConfig holds per-source API credentials.
// A source without its credentials is skipped at pipeline construction,
// except those marked required which fail startup.
type SourcesConfig struct {
	AlphaVantageKey    string   `envconfig:"ALPHA_VANTAGE_KEY"`
	NewsAPIKey         string   `envconfig:"NEWS_API_KEY"`
	RedditClientID     string   `envconfig:"REDDIT_CLIENT_ID"`
	RedditClientSecret string   `envconfig:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent    string   `envconfig:"REDDIT_USER_AGENT" default:"tickerpulse/1.0"`
	Subreddits         []string `envconfig:"REDDIT_SUBREDDITS" default:"wallstreetbets"`
	NewsFeeds          []string `envconfig:"NEWS_RSS_FEEDS"`
}

// WeightsConfig controls cross-source combination. Weights need not sum
// to 1; the aggregator normalizes over sources that produced data.
type WeightsConfig struct {
	News           float64       `envconfig:"NEWS_WEIGHT" default:"0.7"`
	Reddit         float64       `envconfig:"REDDIT_WEIGHT" default:"0.3"`
	Institutional  float64       `envconfig:"INSTITUTIONAL_WEIGHT" default:"0.7"`
	Social         float64       `envconfig:"SOCIAL_WEIGHT" default:"0.3"`
	NeutralityBand float64       `envconfig:"NEUTRALITY_BAND" default:"0.1"`
	TrendWindow    time.Duration `envconfig:"TREND_WINDOW" default:"1h"`
}

type TelegramConfig struct {
	BotToken       string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID         int64   `envconfig:"TELEGRAM_CHAT_ID"`
	AlertThreshold float64 `envconfig:"TELEGRAM_ALERT_THRESHOLD" default:"0.5"`
}

// Enabled reports whether Telegram alerting is configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains settings for the background watchlist refresh
type WorkerConfig struct {
	RefreshInterval time.Duration `envconfig:"WORKER_REFRESH_INTERVAL" default:"15m"`
	RefreshEnabled  bool          `envconfig:"WORKER_REFRESH_ENABLED" default:"true"`
	Watchlist       []string      `envconfig:"WATCHLIST" default:"AAPL,NVDA,MSFT,TSLA"`
	Lookback        time.Duration `envconfig:"WATCHLIST_LOOKBACK" default:"168h"` // 7 days
}

// Load reads configuration from environment variables.
// It first tries to load .env file (useful for local development).
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that must halt startup: negative source
// weights, a nonsensical neutrality band or trend window, and missing
// credentials for sources the watchlist refresh depends on.
func (c *Config) Validate() error {
	weights := map[string]float64{
		"NEWS_WEIGHT":          c.Weights.News,
		"REDDIT_WEIGHT":        c.Weights.Reddit,
		"INSTITUTIONAL_WEIGHT": c.Weights.Institutional,
		"SOCIAL_WEIGHT":        c.Weights.Social,
	}
	for field, w := range weights {
		if w < 0 {
			return errors.NewConfigError(field, fmt.Sprintf("must be non-negative, got %v", w), errors.ErrInvalidWeight)
		}
	}

	if c.Weights.NeutralityBand < 0 || c.Weights.NeutralityBand >= 1 {
		return errors.NewConfigError("NEUTRALITY_BAND",
			fmt.Sprintf("must be in [0, 1), got %v", c.Weights.NeutralityBand), errors.ErrInvalidConfig)
	}

	if c.Weights.TrendWindow <= 0 {
		return errors.NewConfigError("TREND_WINDOW", "must be positive", errors.ErrInvalidConfig)
	}

	if c.Sources.RedditClientID != "" && c.Sources.RedditClientSecret == "" {
		return errors.NewConfigError("REDDIT_CLIENT_SECRET", "required when REDDIT_CLIENT_ID is set", errors.ErrMissingCredential)
	}

	return nil
}
