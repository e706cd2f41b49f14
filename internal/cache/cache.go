// Package cache provides a per-key versioned result cache with in-flight
// computation deduplication. It is domain-agnostic: keys are opaque strings
// and versions are monotonically increasing int32 values supplied by the
// caller, matching LSP document versions.
package cache

import (
	"context"
	"sync"
)

type entry[T any] struct {
	version int32
	data    T
}

// inflight tracks one running computation. Waiters block on done; val and
// err are written before done is closed.
type inflight[T any] struct {
	version int32
	done    chan struct{}
	val     T
	err     error
}

// Cache holds at most one entry per key, tagged with the version it was
// computed for, plus any in-flight computations.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	pending map[string]*inflight[T]
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		pending: make(map[string]*inflight[T]),
	}
}

// Get returns the cached data for key only when the stored version exactly
// equals version. There is no latest-or-older fallback: stale reads are the
// caller's problem to recompute, not the cache's to approximate.
func (c *Cache[T]) Get(key string, version int32) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.version != version {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores data for (key, version). A write carrying an older version than
// the stored entry is dropped, so a slow stale computation can never clobber
// a fresher result.
func (c *Cache[T]) Set(key string, version int32, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, version, data)
}

func (c *Cache[T]) setLocked(key string, version int32, data T) {
	if e, ok := c.entries[key]; ok && e.version > version {
		return
	}
	c.entries[key] = entry[T]{version: version, data: data}
}

// GetOrCompute returns the cached data for (key, version) if present. When a
// computation for the key is already in flight with a version at least as
// new, its result is shared instead of starting another. Otherwise compute
// runs; its result is cached on success, and the pending slot is cleared on
// success and failure alike, so errors are never cached.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, version int32, compute func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.version == version {
		c.mu.Unlock()
		return e.data, nil
	}
	if p, ok := c.pending[key]; ok && p.version >= version {
		c.mu.Unlock()
		return p.wait(ctx)
	}

	p := &inflight[T]{version: version, done: make(chan struct{})}
	c.pending[key] = p
	c.mu.Unlock()

	val, err := compute(ctx)

	c.mu.Lock()
	if err == nil {
		c.setLocked(key, version, val)
	}
	if c.pending[key] == p {
		delete(c.pending, key)
	}
	c.mu.Unlock()

	p.val, p.err = val, err
	close(p.done)
	return val, err
}

func (p *inflight[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-p.done:
		return p.val, p.err
	}
}

// Delete removes the cached entry and any pending slot for key. A dropped
// pending slot still resolves its waiters, but its eventual result is no
// longer shared with later requests.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.pending, key)
}

// Clear removes all cached entries and pending slots.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
	c.pending = make(map[string]*inflight[T])
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
