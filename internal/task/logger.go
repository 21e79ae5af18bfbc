package task

import (
	"context"
	"fmt"
	"os"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
)

// AsynqLogger routes Asynq server and scheduler logs through the service logger.
type AsynqLogger struct{}

func (AsynqLogger) Debug(args ...interface{}) {
	logger.Debug(context.Background(), "asynq: "+fmt.Sprint(args...))
}

func (AsynqLogger) Info(args ...interface{}) {
	logger.Info(context.Background(), "asynq: "+fmt.Sprint(args...))
}

func (AsynqLogger) Warn(args ...interface{}) {
	logger.Warn(context.Background(), "asynq: "+fmt.Sprint(args...))
}

func (AsynqLogger) Error(args ...interface{}) {
	logger.Error(context.Background(), "asynq: "+fmt.Sprint(args...))
}

func (AsynqLogger) Fatal(args ...interface{}) {
	logger.Error(context.Background(), "asynq: "+fmt.Sprint(args...))
	os.Exit(1)
}
