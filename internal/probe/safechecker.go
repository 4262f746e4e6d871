package probe

import (
	"context"
	"fmt"
)

// Safe wraps inner so that a panic inside a single attempt becomes a
// failure Outcome for that target instead of tearing down the whole race
// or aggregation.
func Safe(inner Checker) Checker {
	return &safeChecker{inner: inner}
}

type safeChecker struct {
	inner Checker
}

func (s *safeChecker) Check(ctx context.Context, target string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Success: false, Message: fmt.Sprintf("probe panic: %v", r)}
		}
	}()
	return s.inner.Check(ctx, target)
}
