package window

import (
	"container/list"
	"log/slog"
)

// Cache is a fixed-capacity, most-recently-used-ordered map from
// aligned offset to Window. It is not safe for concurrent use; the
// owning Manager serializes access to it.
//
// No third-party LRU cache library is used here — none of the
// retrieval pack's dependencies (directly or transitively) ship one;
// see DESIGN.md. container/list plus a map is the standard idiom for
// this shape in Go.
type Cache struct {
	capacity int
	entries  map[int64]*list.Element
	order    *list.List // front = most recently used
	logger   *slog.Logger
}

type cacheEntry struct {
	offset int64
	window *Window
}

// NewCache constructs a cache with the given capacity. A non-positive
// capacity falls back to DefaultCacheCapacity.
func NewCache(capacity int, logger *slog.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[int64]*list.Element, capacity),
		order:    list.New(),
		logger:   logger,
	}
}

// Get returns the window cached at the given aligned offset, promoting
// it to most-recently-used on a hit.
func (c *Cache) Get(offset int64) (*Window, bool) {
	el, ok := c.entries[offset]
	if !ok {
		c.logger.Debug("window cache miss", "offset", offset)
		return nil, false
	}
	c.order.MoveToFront(el)
	c.logger.Debug("window cache hit", "offset", offset)
	return el.Value.(*cacheEntry).window, true
}

// Put inserts w keyed by its aligned offset, evicting the
// least-recently-used window first if the cache is at capacity. The
// evicted window is released before Put returns.
func (c *Cache) Put(w *Window) error {
	if el, ok := c.entries[w.offset]; ok {
		// Replacing an existing entry at this offset: release the old
		// window first, this should not normally happen since offsets
		// are the cache key, but guards against double-mapping.
		old := el.Value.(*cacheEntry).window
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).window = w
		if old != w {
			return old.release()
		}
		return nil
	}

	if c.order.Len() >= c.capacity {
		if err := c.evictOldest(); err != nil {
			return err
		}
	}

	el := c.order.PushFront(&cacheEntry{offset: w.offset, window: w})
	c.entries[w.offset] = el
	return nil
}

// evictOldest removes and releases the least-recently-used window.
func (c *Cache) evictOldest() error {
	back := c.order.Back()
	if back == nil {
		return nil
	}
	entry := back.Value.(*cacheEntry)
	c.order.Remove(back)
	delete(c.entries, entry.offset)
	c.logger.Debug("window cache eviction", "offset", entry.offset)
	return entry.window.release()
}

// Remove drops and releases the window at offset, if present.
func (c *Cache) Remove(offset int64) error {
	el, ok := c.entries[offset]
	if !ok {
		return nil
	}
	entry := el.Value.(*cacheEntry)
	c.order.Remove(el)
	delete(c.entries, offset)
	return entry.window.release()
}

// Clear releases every cached window and empties the cache.
func (c *Cache) Clear() error {
	var firstErr error
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*cacheEntry)
		if err := entry.window.release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.entries = make(map[int64]*list.Element, c.capacity)
	c.order.Init()
	return firstErr
}

// Len returns the number of windows currently cached.
func (c *Cache) Len() int { return c.order.Len() }

// Offsets returns the cached offsets in most-recently-used-first order.
// Intended for tests and diagnostics.
func (c *Cache) Offsets() []int64 {
	offsets := make([]int64, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		offsets = append(offsets, el.Value.(*cacheEntry).offset)
	}
	return offsets
}
