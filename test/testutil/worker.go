package testutil

import (
	"context"

	workerHandler "github.com/fhuszti/medias-lifecycle-go/internal/handler/worker"
	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an Asynq worker running the media processors.
// It returns a function to gracefully shut down the worker.
func StartWorker(redisAddr string, svcs workerHandler.Services) func() {
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 5,
		Logger:      task.AsynqLogger{},
	})
	if err := srv.Start(workerHandler.NewServeMux(svcs)); err != nil {
		logger.Errorf(context.Background(), "worker did not start: %v", err)
		return func() {}
	}

	return func() {
		srv.Shutdown()
	}
}
