package probe

import (
	"context"
	"time"
)

// RetryChecker re-runs the inner checker up to Attempts times, sleeping
// Backoff between failed attempts. The first success short-circuits.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) Outcome {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last Outcome
	for i := 0; i < attempts; i++ {
		last = r.Inner.Check(ctx, target)
		if last.Success {
			return last
		}
		if i < attempts-1 {
			select {
			case <-time.After(r.Backoff):
			case <-ctx.Done():
				last.Message = ctx.Err().Error()
				return last
			}
		}
	}
	// annotate message so a retried series is visible in logs
	last.Message = last.Message + " (after retries)"
	return last
}
