package task

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

type periodicRegistrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// EverySpec turns an interval into a cron spec understood by both Asynq and cron.
func EverySpec(interval time.Duration) string {
	return "@every " + interval.String()
}

// RegisterReclaim schedules the orphan sweep on an Asynq scheduler. The task is
// unique for one interval, so overlapping schedulers enqueue it only once.
func RegisterReclaim(s periodicRegistrar, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("reclaim interval must be positive, got %s", interval)
	}
	return s.Register(EverySpec(interval), NewReclaimOrphansTask(),
		asynq.Unique(interval),
		asynq.MaxRetry(0),
		asynq.Timeout(interval),
	)
}

// LocalScheduler runs periodic jobs in-process. A run still in progress
// makes the next one skip.
type LocalScheduler struct {
	cron *cron.Cron
}

func NewLocalScheduler() *LocalScheduler {
	l := cronLogger{}
	return &LocalScheduler{cron: cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)}
}

// Every registers job to run at each interval with ctx.
func (s *LocalScheduler) Every(ctx context.Context, interval time.Duration, name string, job func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("%s interval must be positive, got %s", name, interval)
	}
	_, err := s.cron.AddFunc(EverySpec(interval), func() {
		if err := job(ctx); err != nil {
			logger.Errorf(ctx, "❌  scheduled %s failed: %v", name, err)
		}
	})
	return err
}

func (s *LocalScheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context done once running jobs finished.
func (s *LocalScheduler) Stop() context.Context {
	return s.cron.Stop()
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
