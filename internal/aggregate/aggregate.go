// Package aggregate fans a probe out over many targets in parallel and
// merges the outcomes into a single target→healthy mapping.
package aggregate

import (
	"context"
	"sync"

	"github.com/hamed0406/proberace/internal/probe"
)

// CheckAll probes every target concurrently and returns a mapping from
// target to "is healthy". It waits for every attempt to finish before
// returning, so the mapping is always complete: exactly one entry per
// distinct input target, and never an in-flight placeholder.
//
// Any failure — transport error, non-success status, timeout, or a panic
// inside the checker — records false for that target; one bad target never
// aborts the aggregation. Total wall-clock time approaches the slowest
// single probe rather than the sum of all probes.
func CheckAll(ctx context.Context, checker probe.Checker, targets []string) map[string]bool {
	results := make(map[string]bool, len(targets))
	if len(targets) == 0 {
		return results
	}

	safe := probe.Safe(checker)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, t := range targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			out := safe.Check(ctx, target)
			mu.Lock()
			results[target] = out.Success
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	return results
}
