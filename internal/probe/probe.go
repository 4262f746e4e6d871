package probe

import "context"

// Outcome is the unified result of a single probe attempt.
//
// Success is the only field the race/aggregation logic looks at; the rest is
// diagnostic detail:
// - StatusCode: HTTP status code when available; 0 for transport/DNS errors.
// - Message: failure reason or status line.
// - LatencyMS: elapsed wall-clock time of the attempt in milliseconds.
type Outcome struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
}

// Checker is the probe capability: one attempt against one target.
//
// Implementations must be safe for concurrent use from any number of
// goroutines and must honor ctx — when ctx is cancelled or its deadline
// passes, Check returns promptly with a failure Outcome.
type Checker interface {
	Check(ctx context.Context, target string) Outcome
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context, target string) Outcome

func (f CheckerFunc) Check(ctx context.Context, target string) Outcome {
	return f(ctx, target)
}
