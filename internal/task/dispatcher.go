package task

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// taskTimeout bounds one processing chain, retries included.
const taskTimeout = 2 * time.Minute

// crashRedeliveries is how many times Asynq hands a task out again after its
// worker died mid-task. Handler failures never use it: the worker mux marks
// them SkipRetry, since the processors run their own retry policies.
const crashRedeliveries = 1

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher publishes intents on the Redis backed Asynq queue.
type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.IntentPublisher = (*Dispatcher)(nil)

func NewDispatcher(opt asynq.RedisClientOpt) *Dispatcher {
	return &Dispatcher{client: asynq.NewClient(opt)}
}

func (d *Dispatcher) PublishFixate(ctx context.Context, id uuid.UUID) error {
	t, err := NewFixateMediaTask(id.String())
	if err != nil {
		return err
	}
	return d.enqueue(ctx, t)
}

func (d *Dispatcher) PublishDelete(ctx context.Context, id uuid.UUID) error {
	t, err := NewDeleteMediaTask(id.String())
	if err != nil {
		return err
	}
	return d.enqueue(ctx, t)
}

// enqueue keeps one redelivery for lease expiry, so an intent survives a
// worker crash.
func (d *Dispatcher) enqueue(ctx context.Context, t *asynq.Task) error {
	if _, err := d.client.EnqueueContext(ctx, t, asynq.MaxRetry(crashRedeliveries), asynq.Timeout(taskTimeout)); err != nil {
		return err
	}
	metrics.IntentsPublished.WithLabelValues(t.Type()).Inc()
	return nil
}

func (d *Dispatcher) Close() error {
	if c, ok := d.client.(*asynq.Client); ok {
		return c.Close()
	}
	return nil
}
