// Package cache provides a thread-safe LRU cache of parsed filters.
//
// Search requests tend to repeat the same handful of filters. The cache
// avoids parsing a filter string again when it has been seen recently.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrParse("genre = horror AND year > 2000")
package cache

import (
	"container/list"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

// DefaultCapacity is used when New is given a capacity <= 0.
const DefaultCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key  string
	expr *types.Expression
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used to trace evictions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithParserOptions sets the options used by GetOrParse.
func WithParserOptions(opts ...parser.CompileOption) Option {
	return func(c *Cache) {
		c.parserOpts = append(c.parserOpts, opts...)
	}
}

// Cache is a thread-safe LRU (Least Recently Used) cache of expressions
// keyed by filter text. Once the capacity is reached, the least recently
// accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	logger     logrus.FieldLogger
	parserOpts []parser.CompileOption
}

// New creates a new LRU cache with the given capacity.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Get retrieves a parsed filter from the cache and marks it as most
// recently used.
func (c *Cache) Get(filter string) (*types.Expression, bool) {
	c.mu.RLock()
	el, ok := c.items[filter]
	// Entries already at the front need no write lock.
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !alreadyFront {
		// Re-check in case of a concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[filter]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()

		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}
	c.hits.Add(1)
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces the expression of a filter.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(filter string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[filter]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: filter, expr: expr})
	c.items[filter] = el
}

// GetOrParse returns the cached expression of filter, parsing and caching
// it on a miss. Parse errors are not cached.
func (c *Cache) GetOrParse(filter string) (*types.Expression, error) {
	return c.GetOrCompile(filter, func() (*types.Expression, error) {
		return parser.Parse(filter, c.parserOpts...)
	})
}

// GetOrCompile retrieves the expression for key from cache, or calls compile()
// to create it, caches the result, and returns it.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.Len(),
	}
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[filter]; ok {
		c.ll.Remove(el)
		delete(c.items, filter)
	}
}

// Clear removes all entries from the cache. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	key := el.Value.(*entry).key
	delete(c.items, key)
	c.evictions.Add(1)
	c.logger.WithField("filter", key).Trace("evicted cached filter")
}
