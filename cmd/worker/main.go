package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/medias-lifecycle-go/internal/bootstrap"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	workerHandler "github.com/fhuszti/medias-lifecycle-go/internal/handler/worker"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	if !cfg.UsesRedis() {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Startup failed: %v", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	mux := workerHandler.NewServeMux(app.Processors())
	runWorker(ctx, mux, cfg)
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(bootstrap.RedisOpt(cfg), asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: bootstrap.ShutdownTimeout,
		Logger:          task.AsynqLogger{},
	})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop fetching, then wait for in-flight tasks up to ShutdownTimeout
	srv.Stop()
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
