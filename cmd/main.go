package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/bootstrap"
	"tickerpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	container, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycle := bootstrap.NewLifecycle()
	serverErr, err := lifecycle.Start(ctx, container)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	// Wait for shutdown signal or a fatal server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("HTTP server failed: %v", err)
		}
	}

	cancel()
	lifecycle.Shutdown(container)
}
