package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/amqp"
	"contas/internal/config"
	applog "contas/internal/log"
	"contas/internal/storage"
	"contas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup("worker")

	logger.Info("Starting contas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditWorker := worker.NewAuditWorker(repo)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := amqpClient.ConsumeLedgerEvents(ctx, auditWorker.HandleEvent); err != nil {
			if err != context.Canceled {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic journal snapshot so operators can verify the trail is advancing.
	ticker := time.NewTicker(cfg.WorkerFlushTimeout)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := auditWorker.ReportRecent(ctx, cfg.WorkerBatchSize); err != nil {
					logger.Error("Journal report failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Wait for the consumer to finish its in-flight delivery before the
	// deferred Close tears down the channel and the database.
	if awaitDone(consumerDone, 30*time.Second) {
		logger.Info("Worker shutdown complete")
	} else {
		logger.Warn("Shutdown timeout reached")
	}
}

// awaitDone blocks until done closes or the timeout elapses, reporting
// whether the waited-on work actually finished.
func awaitDone(done <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
