// Package bootstrap wires configuration, storage clients, fetchers,
// the pipeline, workers, and the HTTP server into a runnable app.
package bootstrap

import (
	"context"

	chclient "tickerpulse/internal/adapters/clickhouse"
	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/adapters/errors/noop"
	"tickerpulse/internal/adapters/errors/sentry"
	redisclient "tickerpulse/internal/adapters/redis"
	"tickerpulse/internal/adapters/telegram"
	"tickerpulse/internal/api"
	"tickerpulse/internal/api/health"
	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/internal/fetchers"
	"tickerpulse/internal/metrics"
	"tickerpulse/internal/pipeline"
	chrepo "tickerpulse/internal/repository/clickhouse"
	redisrepo "tickerpulse/internal/repository/redis"
	"tickerpulse/internal/sentiment/aggregate"
	"tickerpulse/internal/workers"
	"tickerpulse/internal/workers/refresh"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// Container holds all application dependencies.
// Components are organized in initialization order.
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure
	CH    *chclient.Client
	Redis *redisclient.Client

	// Domain
	Pipeline  *pipeline.Pipeline
	Scheduler *workers.Scheduler

	// Application
	HTTPServer *api.Server
}

// Build assembles the full dependency graph. Configuration and logging
// must already be initialized; everything else happens here.
func Build(cfg *config.Config) (*Container, error) {
	log := logger.Get()

	c := &Container{
		Config: cfg,
		Log:    log,
	}

	c.ErrorTracker = buildErrorTracker(cfg, log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()

	if err := c.buildStorage(); err != nil {
		return nil, err
	}
	c.buildPipeline()
	c.buildWorkers()
	c.buildHTTPServer()

	log.Info("Container initialized")
	return c, nil
}

func buildErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// buildStorage connects ClickHouse and Redis. Both are optional: the
// service still serves live snapshots without an archive or cache.
func (c *Container) buildStorage() error {
	ch, err := chclient.NewClient(c.Config.ClickHouse)
	if err != nil {
		c.Log.Warnf("ClickHouse unavailable, running without archive: %v", err)
	} else if err := chrepo.NewItemRepository(ch.Conn()).EnsureSchema(context.Background()); err != nil {
		c.Log.Warnf("ClickHouse schema setup failed, running without archive: %v", err)
		_ = ch.Close()
	} else {
		c.CH = ch
	}

	rd, err := redisclient.NewClient(c.Config.Redis)
	if err != nil {
		c.Log.Warnf("Redis unavailable, running without snapshot cache: %v", err)
	} else {
		c.Redis = rd
	}

	return nil
}

// buildFetchers constructs one fetcher per configured source
func (c *Container) buildFetchers() []fetchers.Fetcher {
	src := c.Config.Sources

	fs := []fetchers.Fetcher{
		fetchers.NewNewsFetcher(src.NewsFeeds),
		fetchers.NewSocialFetcher(),
	}

	if src.RedditClientID != "" && src.RedditClientSecret != "" {
		fs = append(fs, fetchers.NewRedditFetcher(src.RedditClientID, src.RedditClientSecret, src.Subreddits))
	} else {
		c.Log.Warn("Reddit credentials not set, reddit source disabled")
	}

	if src.AlphaVantageKey != "" || src.NewsAPIKey != "" {
		fs = append(fs, fetchers.NewInstitutionalFetcher(src.AlphaVantageKey, src.NewsAPIKey))
	} else {
		c.Log.Warn("No institutional API keys set, institutional source disabled")
	}

	return fs
}

func (c *Container) buildPipeline() {
	weights := sentiment.WeightConfig{
		sentiment.SourceNews:          c.Config.Weights.News,
		sentiment.SourceReddit:        c.Config.Weights.Reddit,
		sentiment.SourceInstitutional: c.Config.Weights.Institutional,
		sentiment.SourceSocial:        c.Config.Weights.Social,
	}

	opts := pipeline.Options{
		TrendWindow: c.Config.Weights.TrendWindow,
		CacheTTL:    c.Config.Redis.CacheTTL,
	}
	if c.CH != nil {
		opts.Repository = chrepo.NewItemRepository(c.CH.Conn())
	}
	if c.Redis != nil {
		opts.Cache = redisrepo.NewSnapshotCache(c.Redis.Raw())
	}

	c.Pipeline = pipeline.New(
		c.buildFetchers(),
		aggregate.New(weights, c.Config.Weights.NeutralityBand),
		opts,
	)
}

func (c *Container) buildWorkers() {
	c.Scheduler = workers.NewScheduler()

	var alerter refresh.Alerter
	if c.Config.Telegram.Enabled() {
		notifier, err := telegram.NewNotifier(c.Config.Telegram.BotToken, c.Config.Telegram.ChatID)
		if err != nil {
			c.Log.Warnf("Telegram notifier disabled: %v", err)
		} else {
			alerter = notifier
			c.Log.Info("Telegram alerting enabled")
		}
	}

	c.Scheduler.RegisterWorker(refresh.New(c.Pipeline, refresh.Config{
		Interval:       c.Config.Workers.RefreshInterval,
		Enabled:        c.Config.Workers.RefreshEnabled,
		Watchlist:      c.Config.Workers.Watchlist,
		Lookback:       c.Config.Workers.Lookback,
		Alerter:        alerter,
		AlertThreshold: c.Config.Telegram.AlertThreshold,
	}))
}

func (c *Container) buildHTTPServer() {
	healthHandler := health.New(c.Log, c.Config.App.Name, c.Config.App.Version)
	if c.CH != nil {
		healthHandler.AddCheck("clickhouse", c.CH)
	}
	if c.Redis != nil {
		healthHandler.AddCheck("redis", c.Redis)
	}

	c.HTTPServer = api.NewServer(api.ServerConfig{
		Port:         c.Config.Server.Port,
		ServiceName:  c.Config.App.Name,
		Version:      c.Config.App.Version,
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
	}, api.NewHandlers(c.Pipeline), healthHandler, c.Log)
}
