package cache

import (
	"slices"
	"sync"
)

// State describes what a FutureCache holds for a key.
type State uint8

const (
	Missing State = iota
	Ready
	Loading
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Loading:
		return "loading"
	default:
		return "missing"
	}
}

// Lookup is the outcome of a cache query. Value is set when State is Ready,
// Future when State is Loading.
type Lookup[V any] struct {
	State  State
	Value  V
	Future *Future[V]
}

// Completion reports a future that Maintain retired.
type Completion[K comparable] struct {
	Key K
	Err error
}

// FutureCache maps keys to finished values or to the single in-flight
// computation producing them. A key is never present on both sides.
//
// Failed computations are not cached: Maintain drops them so the next
// request starts a fresh one.
type FutureCache[K comparable, V any] struct {
	mu      sync.Mutex
	results map[K]V
	tasks   map[K]*Future[V]
}

// NewFutureCache creates an empty cache.
func NewFutureCache[K comparable, V any]() *FutureCache[K, V] {
	return &FutureCache[K, V]{
		results: make(map[K]V),
		tasks:   make(map[K]*Future[V]),
	}
}

func (c *FutureCache[K, V]) lookupLocked(k K) Lookup[V] {
	if v, ok := c.results[k]; ok {
		return Lookup[V]{State: Ready, Value: v}
	}
	if f, ok := c.tasks[k]; ok {
		return Lookup[V]{State: Loading, Future: f}
	}
	return Lookup[V]{State: Missing}
}

// Get reports the entry for k.
func (c *FutureCache[K, V]) Get(k K) Lookup[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(k)
}

// GetOrStart returns the entry for k, calling start to register a new
// computation only when there is none. start runs under the cache lock, so
// concurrent callers for the same key share one computation. started is true
// for the caller whose start was used.
func (c *FutureCache[K, V]) GetOrStart(k K, start func() *Future[V]) (l Lookup[V], started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l = c.lookupLocked(k); l.State != Missing {
		return l, false
	}
	f := start()
	c.tasks[k] = f
	return Lookup[V]{State: Loading, Future: f}, true
}

// InsertFuture registers f for k. It returns false and leaves the cache
// unchanged when k already has an entry.
func (c *FutureCache[K, V]) InsertFuture(k K, f *Future[V]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lookupLocked(k).State != Missing {
		return false
	}
	c.tasks[k] = f
	return true
}

// InsertResult stores a finished value for k, retiring any in-flight entry.
func (c *FutureCache[K, V]) InsertResult(k K, v V) {
	c.mu.Lock()
	delete(c.tasks, k)
	c.results[k] = v
	c.mu.Unlock()
}

// RemoveResult drops the finished value for k. Returns false if there was none.
func (c *FutureCache[K, V]) RemoveResult(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.results[k]; !ok {
		return false
	}
	delete(c.results, k)
	return true
}

// RemoveFuture forgets the in-flight computation for k. The computation keeps
// running but its value will not be cached.
func (c *FutureCache[K, V]) RemoveFuture(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tasks[k]; !ok {
		return false
	}
	delete(c.tasks, k)
	return true
}

// Maintain polls every in-flight computation without blocking. Finished
// values move to the result side; failures are dropped. Every retired key is
// reported.
func (c *FutureCache[K, V]) Maintain() []Completion[K] {
	c.mu.Lock()
	defer c.mu.Unlock()

	var done []Completion[K]
	for k, f := range c.tasks {
		v, ok, err := f.Poll()
		if !ok {
			continue
		}
		delete(c.tasks, k)
		if err == nil {
			c.results[k] = v
		}
		done = append(done, Completion[K]{Key: k, Err: err})
	}
	return done
}

// Trim evicts finished values with the largest dist until at most limit
// remain. In-flight computations are never evicted. Returns the evicted keys,
// farthest first.
func (c *FutureCache[K, V]) Trim(limit int, dist func(K) int64) []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	over := len(c.results) - max(limit, 0)
	if over <= 0 {
		return nil
	}

	type ranked struct {
		key  K
		dist int64
	}
	keys := make([]ranked, 0, len(c.results))
	for k := range c.results {
		keys = append(keys, ranked{key: k, dist: dist(k)})
	}
	slices.SortFunc(keys, func(a, b ranked) int {
		switch {
		case a.dist > b.dist:
			return -1
		case a.dist < b.dist:
			return 1
		}
		return 0
	})

	evicted := make([]K, 0, over)
	for _, r := range keys[:over] {
		delete(c.results, r.key)
		evicted = append(evicted, r.key)
	}
	return evicted
}

// Len returns the number of finished values.
func (c *FutureCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// InFlight returns the number of registered computations.
func (c *FutureCache[K, V]) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}
