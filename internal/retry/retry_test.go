package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
)

func fastOptions(maxRetries int) Options {
	return Options{
		MaxRetries:     maxRetries,
		InitialDelay:   time.Millisecond,
		DelayStep:      time.Millisecond,
		AttemptTimeout: 100 * time.Millisecond,
	}
}

func TestDoSuccessInvokesOnce(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), "test.op", fastOptions(2), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected result to pass through unchanged, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 invocation, got %d", calls)
	}
}

func TestDoExhaustsBudgetOnRetryableFailure(t *testing.T) {
	calls := 0
	transportErr := faults.New(faults.KindTransport, "test.op", errors.New("connection refused"))
	_, err := Do(context.Background(), "test.op", fastOptions(2), func(ctx context.Context) (int, error) {
		calls++
		return 0, transportErr
	})
	if calls != 3 {
		t.Errorf("expected maxRetries+1 = 3 invocations, got %d", calls)
	}
	if faults.KindOf(err) != faults.KindTransport {
		t.Errorf("expected last error to keep its transport classification, got %v", err)
	}
}

func TestDoDoesNotRetryDomainFailures(t *testing.T) {
	for _, kind := range []faults.Kind{faults.KindNotFound, faults.KindConflict, faults.KindGateway, faults.KindInternal} {
		calls := 0
		_, err := Do(context.Background(), "test.op", fastOptions(5), func(ctx context.Context) (int, error) {
			calls++
			return 0, faults.New(kind, "test.op", nil)
		})
		if calls != 1 {
			t.Errorf("kind %v: expected 1 invocation, got %d", kind, calls)
		}
		if faults.KindOf(err) != kind {
			t.Errorf("kind %v: classification changed to %v", kind, faults.KindOf(err))
		}
	}
}

func TestDoClassifiesSlowAttemptAsTimeout(t *testing.T) {
	opts := Options{
		MaxRetries:     0,
		InitialDelay:   time.Millisecond,
		DelayStep:      time.Millisecond,
		AttemptTimeout: 10 * time.Millisecond,
	}
	_, err := Do(context.Background(), "test.op", opts, func(ctx context.Context) (int, error) {
		select {
		case <-time.After(time.Second):
			return 1, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	if faults.KindOf(err) != faults.KindTimeout {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestDoRetriesTimeoutThenSucceeds(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), "test.op", fastOptions(2), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", faults.New(faults.KindTimeout, "test.op", context.DeadlineExceeded)
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" || calls != 2 {
		t.Errorf("expected success on second attempt, got %q after %d calls", got, calls)
	}
}

func TestDoStopsWhenCallerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, "test.op", fastOptions(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, faults.New(faults.KindTransport, "test.op", errors.New("down"))
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls > 1 {
		t.Errorf("expected no retries after cancellation, got %d calls", calls)
	}
}
