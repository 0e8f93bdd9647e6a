// Package lrucache implements a small concurrency safe least recently used
// cache. A cache created with a non positive capacity never evicts.
package lrucache

import (
	"sync"
)

type cacheEntry[K comparable, V any] struct {
	value V
	prev  *cacheEntry[K, V]
	next  *cacheEntry[K, V]
	key   K
}

type Cache[K comparable, V any] struct {
	entries map[K]*cacheEntry[K, V]
	head    *cacheEntry[K, V]
	tail    *cacheEntry[K, V]
	maxSize int
	mu      sync.Mutex
}

func New[K comparable, V any](maxSize int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*cacheEntry[K, V]),
		maxSize: maxSize,
	}
}

// Get returns the value stored under key and marks it as most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(entry)

	return entry.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache grows beyond its capacity. It returns the evicted key, if any.
func (c *Cache[K, V]) Put(key K, value V) (K, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		c.moveToFront(entry)
		var zero K
		return zero, false
	}

	entry := &cacheEntry[K, V]{
		value: value,
		key:   key,
	}
	c.entries[key] = entry
	c.addToFront(entry)

	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		return c.evictLRU()
	}
	var zero K
	return zero, false
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) moveToFront(entry *cacheEntry[K, V]) {
	if entry == c.head {
		return
	}

	if entry.prev != nil {
		entry.prev.next = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	}
	if entry == c.tail {
		c.tail = entry.prev
	}

	c.addToFront(entry)
}

func (c *Cache[K, V]) addToFront(entry *cacheEntry[K, V]) {
	entry.next = c.head
	entry.prev = nil

	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *Cache[K, V]) evictLRU() (K, bool) {
	if c.tail == nil {
		var zero K
		return zero, false
	}

	oldTail := c.tail
	c.tail = oldTail.prev

	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}

	delete(c.entries, oldTail.key)
	return oldTail.key, true
}
