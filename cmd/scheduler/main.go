// Command scheduler enqueues the periodic orphan sweep. Run a single instance;
// the task is also unique per interval, so a brief overlap during a redeploy
// still enqueues it once.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/bootstrap"
	"github.com/fhuszti/medias-lifecycle-go/internal/config"
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
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the scheduler")
		os.Exit(1)
	}

	scheduler := asynq.NewScheduler(bootstrap.RedisOpt(cfg), &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   task.AsynqLogger{},
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
				logger.Errorf(ctx, "❌  Could not enqueue orphan sweep: %v", err)
			}
		},
	})

	entryID, err := task.RegisterReclaim(scheduler, cfg.ReclaimInterval)
	if err != nil {
		logger.Errorf(ctx, "❌  Could not register orphan sweep: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "🚀 Orphan sweep scheduled every %s (entry %s)", cfg.ReclaimInterval, entryID)

	// Run blocks until SIGINT/SIGTERM
	if err := scheduler.Run(); err != nil {
		logger.Errorf(ctx, "❌  Scheduler failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Scheduler gracefully stopped")
}
