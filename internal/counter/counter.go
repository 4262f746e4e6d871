// Package counter provides a counter that is safe to mutate from any
// number of goroutines. The same read-write locking discipline guards the
// result maps assembled by the aggregate package.
package counter

import "sync"

// Counter is a synchronized integer counter. The zero value is ready to
// use and starts at 0.
type Counter struct {
	mu    sync.RWMutex
	value int
}

func New() *Counter {
	return &Counter{}
}

// Increase atomically adds 1. Safe for concurrent callers; the critical
// section is a single addition, so writers never hold the lock long.
func (c *Counter) Increase() {
	c.mu.Lock()
	c.value++
	c.mu.Unlock()
}

// Value returns the current count. Readers share the lock, so concurrent
// reads do not serialize against each other, only against writers.
func (c *Counter) Value() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}
