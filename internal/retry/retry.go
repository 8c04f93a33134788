package retry

import (
	"context"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
)

// Options bounds a retried operation. The delay grows by DelayStep
// after every failed attempt.
type Options struct {
	MaxRetries     int
	InitialDelay   time.Duration
	DelayStep      time.Duration
	AttemptTimeout time.Duration
}

// StoreDefaults is the budget applied to local record store calls.
func StoreDefaults() Options {
	return Options{
		MaxRetries:     2,
		InitialDelay:   250 * time.Millisecond,
		DelayStep:      250 * time.Millisecond,
		AttemptTimeout: 7500 * time.Millisecond,
	}
}

// CollaboratorDefaults is the budget applied to remote collaborator
// calls with small payloads.
func CollaboratorDefaults() Options {
	return Options{
		MaxRetries:     2,
		InitialDelay:   250 * time.Millisecond,
		DelayStep:      250 * time.Millisecond,
		AttemptTimeout: 7500 * time.Millisecond,
	}
}

// FileDefaults is the budget applied to file transfer calls, which
// need a larger per-attempt window.
func FileDefaults() Options {
	return Options{
		MaxRetries:     2,
		InitialDelay:   250 * time.Millisecond,
		DelayStep:      250 * time.Millisecond,
		AttemptTimeout: 30 * time.Second,
	}
}

type result[T any] struct {
	value T
	err   error
}

// Do runs op up to MaxRetries+1 times. Each attempt races op against
// AttemptTimeout; an attempt that outlives its window fails with a
// timeout classification and its context is cancelled so it can release
// whatever it holds. Only timeout and transport failures are retried;
// domain failures (not found, conflict, gateway, internal) return
// immediately. On exhaustion the last error is returned.
func Do[T any](ctx context.Context, op string, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := opts.InitialDelay
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, faults.New(faults.KindTimeout, op, ctx.Err())
			}
			delay += opts.DelayStep
		}

		attemptCtx, cancel := context.WithTimeout(ctx, opts.AttemptTimeout)
		ch := make(chan result[T], 1)
		go func() {
			v, err := fn(attemptCtx)
			ch <- result[T]{value: v, err: err}
		}()

		select {
		case res := <-ch:
			cancel()
			if res.err == nil {
				return res.value, nil
			}
			lastErr = res.err
		case <-attemptCtx.Done():
			cancel()
			lastErr = faults.New(faults.KindTimeout, op, attemptCtx.Err())
		}

		if !faults.Retryable(lastErr) {
			return zero, lastErr
		}
	}

	return zero, lastErr
}
