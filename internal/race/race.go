// Package race runs a probe against competing targets concurrently and
// returns whichever succeeds first, cancelling the rest.
package race

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/proberace/internal/probe"
)

// DefaultTimeout bounds each individual attempt when the caller does not
// override it with WithTimeout.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNoTargets reports an input-contract violation: a race needs at
	// least one candidate. It is returned before any attempt is launched.
	ErrNoTargets = errors.New("race: no targets supplied")

	// ErrAllFailed is the normal terminal outcome when every candidate
	// failed or timed out. Callers branch on it with errors.Is; the
	// individual attempt failures are attached as wrapped errors.
	ErrAllFailed = errors.New("race: no successful response received")
)

// Option configures a single Race call.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout overrides the per-attempt timeout. Values <= 0 fall back to
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// attempt is one candidate's outcome as observed by the dispatcher.
type attempt struct {
	target string
	out    probe.Outcome
}

// Race launches one concurrent probe attempt per target and returns the
// target of the first attempt to succeed. As soon as a winner is known the
// remaining attempts are cancelled; their eventual outcomes are discarded
// and can never displace the winner.
//
// A failed or timed-out attempt only removes that candidate: the race keeps
// waiting on the others and concludes with ErrAllFailed once every attempt
// has failed. Duplicate targets are raced independently. Each attempt is
// bounded by the effective timeout; the dispatcher itself returns as soon
// as a winner is known or the last attempt has failed, never later than
// roughly the timeout itself.
//
// Tie-break: when two attempts succeed near-simultaneously, whichever
// outcome the dispatcher receives first wins; exactly one winner is ever
// reported.
func Race(ctx context.Context, checker probe.Checker, targets []string, opts ...Option) (string, error) {
	if len(targets) == 0 {
		return "", ErrNoTargets
	}
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	// Derived per-race context: cancelling it broadcasts "stand down" to
	// every still-running attempt without touching unrelated races.
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered to len(targets) so losing attempts can always deliver their
	// outcome and exit even after the dispatcher has returned.
	outcomes := make(chan attempt, len(targets))

	safe := probe.Safe(checker)
	for _, t := range targets {
		go func(target string) {
			attemptCtx, done := context.WithTimeout(raceCtx, o.timeout)
			defer done()
			outcomes <- attempt{target: target, out: safe.Check(attemptCtx, target)}
		}(t)
	}

	var failures error
	for pending := len(targets); pending > 0; pending-- {
		select {
		case a := <-outcomes:
			if a.out.Success {
				// Decided. Broadcast cancellation; anything still in
				// flight unwinds on its own and its outcome is dropped.
				cancel()
				return a.target, nil
			}
			failures = multierr.Append(failures, fmt.Errorf("%s: %s", a.target, a.out.Message))
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w: %v", ErrAllFailed, failures)
}
