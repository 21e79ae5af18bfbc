package task

import (
	"context"
	"errors"
	"sync"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/metrics"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBusFull   = errors.New("task: local bus queue is full")
	ErrBusClosed = errors.New("task: local bus is closed")
)

// LocalBus runs intents in-process on a bounded pool of goroutines. It stands
// in for the Asynq server when no Redis is configured; tasks are lost on exit.
type LocalBus struct {
	handler     asynq.Handler
	concurrency int

	mu     sync.RWMutex
	queue  chan *asynq.Task
	closed bool
	done   chan struct{}
}

// compile-time check
var _ port.IntentPublisher = (*LocalBus)(nil)

func NewLocalBus(handler asynq.Handler, concurrency, queueSize int) *LocalBus {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &LocalBus{
		handler:     handler,
		concurrency: concurrency,
		queue:       make(chan *asynq.Task, queueSize),
		done:        make(chan struct{}),
	}
}

// Start processes queued tasks until Shutdown is called. Tasks see ctx, so
// cancelling it interrupts their retries.
func (b *LocalBus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)

		g := new(errgroup.Group)
		g.SetLimit(b.concurrency)
		for t := range b.queue {
			g.Go(func() error {
				if err := b.handler.ProcessTask(ctx, t); err != nil {
					logger.Errorf(ctx, "❌  local task %s failed: %v", t.Type(), err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Shutdown stops accepting tasks and waits for the queued ones to finish.
func (b *LocalBus) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands t to the pool without waiting for it to run.
func (b *LocalBus) Enqueue(t *asynq.Task) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.queue <- t:
		metrics.IntentsPublished.WithLabelValues(t.Type()).Inc()
		return nil
	default:
		return ErrBusFull
	}
}

func (b *LocalBus) PublishFixate(ctx context.Context, id uuid.UUID) error {
	t, err := NewFixateMediaTask(id.String())
	if err != nil {
		return err
	}
	return b.Enqueue(t)
}

func (b *LocalBus) PublishDelete(ctx context.Context, id uuid.UUID) error {
	t, err := NewDeleteMediaTask(id.String())
	if err != nil {
		return err
	}
	return b.Enqueue(t)
}
