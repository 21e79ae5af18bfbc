package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/bootstrap"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
	workerHandler "github.com/fhuszti/medias-lifecycle-go/internal/handler/worker"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	mediaSvc "github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Startup failed: %v", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	pub, stopPublisher := initPublisher(runCtx, cfg, app)

	svcs := services{
		uploads: mediaSvc.NewUploadLinkGenerator(app.Repo, app.Storage, uuid.NewUUID, mediaSvc.UploadLinkConfig{
			Bucket:              cfg.MediaBucket,
			TTL:                 cfg.UploadURLTTL,
			AllowedContentTypes: cfg.AllowedContentTypes,
		}),
		urls: mediaSvc.NewURLResolver(app.Repo, app.Cache, app.Storage, mediaSvc.URLResolverConfig{
			Bucket: cfg.MediaBucket,
			TTL:    cfg.DownloadURLTTL,
		}),
		fixations: mediaSvc.NewFixationRequester(pub),
		deletions: mediaSvc.NewDeletionRequester(app.Repo, pub),
	}
	r := newRouter(ctx, cfg, svcs)

	listenRouter(ctx, r, cfg)
	stopPublisher()
}

// initPublisher returns the Asynq dispatcher when Redis is configured. Without
// Redis, intents run on an in-process pool and the orphan sweep on a local
// schedule, so exactly one API instance should run in that mode.
func initPublisher(ctx context.Context, cfg *config.Settings, app *bootstrap.App) (port.IntentPublisher, func()) {
	if cfg.UsesRedis() {
		d := task.NewDispatcher(bootstrap.RedisOpt(cfg))
		logger.Info(ctx, "✅  Publishing intents to Redis")
		return d, func() {
			if err := d.Close(); err != nil {
				logger.Warnf(ctx, "dispatcher close error: %v", err)
			}
		}
	}

	logger.Warn(ctx, "⚠️  Redis not configured, intents are processed in-process")
	processors := app.Processors()
	bus := task.NewLocalBus(workerHandler.NewServeMux(processors), cfg.WorkerConcurrency, cfg.LocalQueueSize)
	bus.Start(ctx)

	sched := task.NewLocalScheduler()
	if err := sched.Every(ctx, cfg.ReclaimInterval, "orphan sweep", func(ctx context.Context) error {
		return workerHandler.ReclaimOrphansHandler(ctx, processors.Reclaimer)
	}); err != nil {
		logger.Errorf(ctx, "❌  Could not schedule the orphan sweep: %v", err)
		os.Exit(1)
	}
	sched.Start()

	return bus, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
		defer cancel()
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
		}
		if err := bus.Shutdown(shutdownCtx); err != nil {
			logger.Warnf(ctx, "local bus did not drain: %v", err)
		}
	}
}

func listenRouter(ctx context.Context, r http.Handler, cfg *config.Settings) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		return
	}
	logger.Info(ctx, "✅  Server gracefully stopped")
}
