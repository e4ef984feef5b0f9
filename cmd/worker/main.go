package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"job-finder/internal/app"
	"job-finder/internal/config"
	"job-finder/internal/scheduler"
)

// The worker re-warms every skilled user's recommendation cache on a cron
// interval, so rankings stay fresh without waiting for cache-miss traffic.
func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	container, err := app.NewContainer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container.Trigger.Start(ctx)

	sweep := scheduler.New(container.Users, container.Trigger, cfg.Recommend.SweepSpec, cfg.Recommend.DefaultLimit, logger)
	if err := sweep.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sweep.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Printf("worker shutting down")
}
