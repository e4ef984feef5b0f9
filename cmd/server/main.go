package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"job-finder/internal/app"
	"job-finder/internal/config"
	"job-finder/internal/database/migration"
	"job-finder/internal/database/seeder"
)

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

	if strings.EqualFold(os.Getenv("RUN_MIGRATIONS"), "true") {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		runner := migration.Runner{Dir: os.Getenv("MIGRATIONS_DIR")}
		if err := runner.Run(ctx, container.DB.SQLDB()); err != nil {
			cancel()
			log.Fatalf("migrations failed: %v", err)
		}
		cancel()
	}

	if strings.EqualFold(os.Getenv("RUN_SEEDERS"), "true") {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, container.DB); err != nil {
			cancel()
			log.Fatalf("seeding failed: %v", err)
		}
		cancel()
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.Trigger.Start(workerCtx)

	server := app.New(container)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
