// Package retry wraps fallible operations in a bounded retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// ErrExhausted is wrapped into the error returned when every attempt failed
// with a retryable error.
var ErrExhausted = errors.New("retry: attempts exhausted")

type BackoffKind int

const (
	// Fixed waits Delay between every attempt.
	Fixed BackoffKind = iota
	// Exponential waits Delay, then doubles the wait after each failed attempt.
	Exponential
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffKind
	Delay       time.Duration
	// Retryable reports whether a failed attempt may be tried again.
	// A nil Retryable retries every error.
	Retryable func(error) bool
	// ExponentialOn, when set on a Fixed policy, makes the errors it matches
	// back off exponentially from Delay while the others keep the fixed Delay.
	ExponentialOn func(error) bool
	// OnRetry, when set, is called before waiting for the next attempt.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Do runs op until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done. The error of the last attempt is returned, wrapped
// with ErrExhausted when the attempt budget ran out.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	var lastErr error
	operation := func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(maxAttempts, &lastErr), uint64(maxAttempts-1)), ctx)
	err := backoff.RetryNotify(operation, b, notify)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if attempt >= maxAttempts && lastErr != nil && (p.Retryable == nil || p.Retryable(lastErr)) {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, lastErr)
	}
	return err
}

func (p Policy) newBackOff(maxAttempts int, lastErr *error) backoff.BackOff {
	if p.Backoff == Exponential {
		return p.exponential(maxAttempts)
	}
	if p.ExponentialOn != nil {
		return &perErrorBackOff{
			fixed:       backoff.NewConstantBackOff(p.Delay),
			exp:         p.exponential(maxAttempts),
			exponential: p.ExponentialOn,
			lastErr:     lastErr,
		}
	}
	return backoff.NewConstantBackOff(p.Delay)
}

func (p Policy) exponential(maxAttempts int) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Delay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.Delay << uint(maxAttempts)
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// perErrorBackOff picks the schedule from the error of the last attempt. The
// exponential schedule only advances on the errors it serves.
type perErrorBackOff struct {
	fixed       backoff.BackOff
	exp         backoff.BackOff
	exponential func(error) bool
	lastErr     *error
}

func (b *perErrorBackOff) NextBackOff() time.Duration {
	if *b.lastErr != nil && b.exponential(*b.lastErr) {
		return b.exp.NextBackOff()
	}
	return b.fixed.NextBackOff()
}

func (b *perErrorBackOff) Reset() {
	b.fixed.Reset()
	b.exp.Reset()
}

// IsAny returns a predicate matching errors that wrap any of targets.
func IsAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}
