// Package cache is a hand-rolled bounded LRU used by the hybrid retriever
// to memoize fused result sets. No LRU library is a direct dependency
// anywhere in the retrieved corpus (see DESIGN.md), so this follows the
// standard container/list-backed approach.
package cache

import (
	"container/list"
	"sync"
)

type entry struct {
	key   string
	value any
	bytes int
}

// LRU is a size- and byte-bounded cache. Eviction happens on insert only;
// reads never mutate beyond moving the touched entry to the front.
type LRU struct {
	mu        sync.Mutex
	maxItems  int
	maxBytes  int
	curBytes  int
	ll        *list.List
	items     map[string]*list.Element
	costOf    func(value any) int
}

// New returns an LRU capped at maxItems entries and maxBytes total cost.
// costOf computes the byte cost of a value at insert time; pass nil to
// disable the byte cap (maxBytes is then ignored).
func New(maxItems, maxBytes int, costOf func(value any) int) *LRU {
	if costOf == nil {
		costOf = func(any) int { return 0 }
	}
	return &LRU{
		maxItems: maxItems,
		maxBytes: maxBytes,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		costOf:   costOf,
	}
}

// Get returns the cached value for key, if present, moving it to
// most-recently-used position.
func (c *LRU) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Set inserts or replaces key's value, evicting least-recently-used entries
// until both the item count and byte budget are satisfied.
func (c *LRU) Set(key string, value any) {
	cost := c.costOf(value)
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		old := el.Value.(*entry)
		c.curBytes += cost - old.bytes
		old.value, old.bytes = value, cost
		c.ll.MoveToFront(el)
	} else {
		el := c.ll.PushFront(&entry{key: key, value: value, bytes: cost})
		c.items[key] = el
		c.curBytes += cost
	}

	for c.ll.Len() > 0 && (c.overItems() || c.overBytes()) {
		c.evictOldest()
	}
}

func (c *LRU) overItems() bool {
	return c.maxItems > 0 && c.ll.Len() > c.maxItems
}

func (c *LRU) overBytes() bool {
	return c.maxBytes > 0 && c.curBytes > c.maxBytes
}

func (c *LRU) evictOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.curBytes -= e.bytes
}

// Purge clears every cached entry, used when the index changes underneath
// the cache (a re-index invalidates every fused result).
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element)
	c.curBytes = 0
}

// Len returns the current number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
