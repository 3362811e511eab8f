package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Initializer builds a fresh Context for an interview on first access. It
// typically downloads and extracts the resume and, for coding archetypes,
// locates the coding question: slow I/O that must run at most once per key
// per cache lifetime.
type Initializer func(ctx context.Context) (*Context, error)

// Cache is a process-wide map from interview ID to its session Context.
// It is safe for concurrent use. Entries live exactly as long as their
// interview is in progress in this process: there is no TTL, no capacity
// bound, and no eviction beyond an explicit Remove. A process restart loses
// all entries; sessions are rebuilt from the durable log on next access.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Context
	group   singleflight.Group
}

// NewCache creates an empty session cache. Construct one at startup and
// inject it; the cache is not a package-level singleton.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Context),
	}
}

// GetOrCreate returns the Context for interviewID, running init to build one
// if no entry exists. Concurrent first calls for the same key share a single
// init execution and all observe the same installed Context. Once installed,
// an entry is never relitigated: later callers get the installed value even
// if their init would have produced different data.
func (c *Cache) GetOrCreate(ctx context.Context, interviewID string, init Initializer) (*Context, error) {
	c.mu.RLock()
	if sc, ok := c.entries[interviewID]; ok {
		c.mu.RUnlock()
		return sc, nil
	}
	c.mu.RUnlock()

	// singleflight collapses concurrent initializations for the same key.
	// init runs without the cache lock held so slow loads for one interview
	// never block other interviews.
	v, err, _ := c.group.Do(interviewID, func() (any, error) {
		// Re-check: another flight may have installed an entry between the
		// read above and this call.
		c.mu.RLock()
		if sc, ok := c.entries[interviewID]; ok {
			c.mu.RUnlock()
			return sc, nil
		}
		c.mu.RUnlock()

		sc, err := init(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[interviewID] = sc
		c.mu.Unlock()

		return sc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Context), nil
}

// Get returns the installed Context for interviewID, if any.
func (c *Cache) Get(interviewID string) (*Context, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.entries[interviewID]
	return sc, ok
}

// Replace unconditionally installs sc as the entry for interviewID. Used when
// a session is explicitly reseeded, such as producing the opening turn on an
// interview with a stale or missing context.
func (c *Cache) Replace(interviewID string, sc *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[interviewID] = sc
}

// Remove deletes the entry for interviewID. No-op if absent.
func (c *Cache) Remove(interviewID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, interviewID)
}

// Len returns the number of live session contexts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
