package compiler

import (
	"context"
	"sync/atomic"
)

// ConcurrentLimiter bounds how many backends generate at the same time.
//
// It is a counting semaphore over a buffered channel, with an atomic
// counter for cheap observability. Acquire blocks until a slot frees up
// or the context is cancelled; generation work is never rejected, only
// queued.
type ConcurrentLimiter struct {
	slots   chan struct{}
	current atomic.Int64
}

// NewConcurrentLimiter creates a limiter with the given number of slots.
// A limit below one is treated as one.
func NewConcurrentLimiter(limit int) *ConcurrentLimiter {
	if limit < 1 {
		limit = 1
	}
	return &ConcurrentLimiter{
		slots: make(chan struct{}, limit),
	}
}

// Acquire blocks until a slot is available or ctx is cancelled. On
// success the caller must call Release when done.
func (cl *ConcurrentLimiter) Acquire(ctx context.Context) error {
	select {
	case cl.slots <- struct{}{}:
		cl.current.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire acquires a slot without blocking. Returns false when the
// limit is reached.
func (cl *ConcurrentLimiter) TryAcquire() bool {
	select {
	case cl.slots <- struct{}{}:
		cl.current.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot acquired by Acquire or TryAcquire.
func (cl *ConcurrentLimiter) Release() {
	cl.current.Add(-1)
	<-cl.slots
}

// Current returns the number of slots currently held.
func (cl *ConcurrentLimiter) Current() int64 {
	return cl.current.Load()
}

// Limit returns the configured slot count.
func (cl *ConcurrentLimiter) Limit() int64 {
	return int64(cap(cl.slots))
}
