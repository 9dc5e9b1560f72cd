package bootstrap

import (
	"context"
	"time"

	"tickerpulse/pkg/logger"
)

// Lifecycle manages graceful startup and shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 90 * time.Second,
	}
}

// Start launches the background workers and the HTTP server.
// The HTTP server runs in its own goroutine; its fatal errors are
// delivered on the returned channel.
func (l *Lifecycle) Start(ctx context.Context, c *Container) (<-chan error, error) {
	if err := c.Scheduler.Start(ctx); err != nil {
		return nil, err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- c.HTTPServer.Start()
	}()

	c.Log.Infof("Started %s", c.Config.App.Name)
	return serverErr, nil
}

// Shutdown performs coordinated cleanup in dependency order:
// 1. HTTP server stops accepting requests
// 2. Workers finish their current iteration
// 3. Error tracker flushes pending events
// 4. Storage connections close last (workers may still flush to them)
func (l *Lifecycle) Shutdown(c *Container) {
	log := c.Log
	shutdownCtx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()

	log.Info("[1/4] Stopping HTTP server...")
	httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
	if err := c.HTTPServer.Shutdown(httpCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	httpCancel()

	log.Info("[2/4] Stopping background workers...")
	if err := c.Scheduler.Stop(); err != nil {
		log.Errorw("Workers shutdown failed", "error", err)
	} else {
		log.Info("✓ Workers stopped")
	}

	log.Info("[3/4] Flushing error tracker...")
	if c.ErrorTracker != nil {
		if err := c.ErrorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("[4/4] Closing storage connections...")
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Errorw("Redis close failed", "error", err)
		}
	}
	if c.CH != nil {
		if err := c.CH.Close(); err != nil {
			log.Errorw("ClickHouse close failed", "error", err)
		}
	}

	_ = logger.Sync()
	log.Info("Shutdown complete")
}
