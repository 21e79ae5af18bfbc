package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/task"
	"github.com/hibiken/asynq"
)

// Services are the processors the task handlers delegate to.
type Services struct {
	Fixer     port.MediaFixer
	Deleter   port.MediaDeleter
	Reclaimer port.OrphanReclaimer
}

// NewServeMux routes every task type to its handler. Failures are wrapped
// with asynq.SkipRetry: processors already retried on their own, so the
// queue's retry budget is left for redelivery after a worker crash.
func NewServeMux(s Services) *asynq.ServeMux {
	mux := asynq.NewServeMux()

	mux.HandleFunc(task.TypeFixateMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseMediaPayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return skipRetry(FixateMediaHandler(ctx, p, s.Fixer))
	})

	mux.HandleFunc(task.TypeDeleteMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseMediaPayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return skipRetry(DeleteMediaHandler(ctx, p, s.Deleter))
	})

	mux.HandleFunc(task.TypeReclaimOrphans, func(ctx context.Context, t *asynq.Task) error {
		return skipRetry(ReclaimOrphansHandler(ctx, s.Reclaimer))
	})

	return mux
}

func skipRetry(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
}
