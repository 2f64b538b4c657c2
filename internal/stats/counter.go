// Package stats holds in-process counters with reader-writer semantics.
package stats

import "sync"

// Counter is a shared scalar guarded by a reader-writer lock: any number of
// concurrent readers, or exactly one writer, never both. Instances are
// independent; inject one wherever a shared statistic is needed.
type Counter struct {
	mu sync.RWMutex
	n  int64
}

func NewCounter() *Counter {
	return &Counter{}
}

// Value reads the counter. Readers run concurrently with each other and
// block only while a write is in progress.
func (c *Counter) Value() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.n
}

// Add applies a delta. Writers are mutually exclusive and block all readers
// for the duration of the write.
func (c *Counter) Add(delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += delta
}
