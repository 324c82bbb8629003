// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cache provides a thread-safe, fixed-capacity least-recently-used cache
for raw response bodies. Keys are strings and values are byte slices. Every
entry carries its own expiry; [Cache.Get] treats an expired entry as absent and
removes it. The cache evicts the least recently used entry when it reaches
capacity. When created with compression enabled via [New], bodies may be stored
in compressed form and are transparently decompressed on retrieval.
*/
package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used response cache that is safe
// for concurrent use. Instances must be constructed with [New]; the zero value
// is not ready for use.
type Cache struct {
	size            int                      // Maximum capacity of the cache (number of entries)
	evictList       *list.List               // A doubly-linked list to manage the eviction order
	items           map[string]*list.Element // Maps string keys to their corresponding linked-list elements
	lock            sync.RWMutex             // For thread-safe operations
	compressEnabled bool                     // Whether transparent compression is enabled
	zstdEnc         *zstd.Encoder            // Reusable zstd encoder for block operations
	zstdDec         *zstd.Decoder            // Reusable zstd decoder for block operations
}

// entry holds the key/body pair stored in each linked-list element.
type entry struct {
	key        string
	body       []byte
	compressed bool
	expiresAt  time.Time
}

// New creates a cache with the specified maximum size.
//
// If compress is true, bodies are stored in a compressed form when this
// reduces space and are transparently decompressed by [Cache.Get].
//
// It returns an error if size is not a positive integer.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:            size,
		evictList:       list.New(),
		items:           make(map[string]*list.Element),
		compressEnabled: compress,
	}

	if compress {
		// Create reusable encoder/decoder for block (stateless) operations.
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores body under key with the given time to live.
//
// If the key exists, it becomes the most recently used and its body and expiry
// are replaced. If the cache is at capacity, the least recently used item is
// evicted. Add reports whether an eviction occurred.
func (c *Cache) Add(key string, body []byte, ttl time.Duration) bool {
	// Compress outside the lock; EncodeAll is safe for concurrent use.
	stored, compressed := c.prepareBody(body)
	expiresAt := time.Now().Add(ttl)

	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		if cacheEnt, ok := ent.Value.(*entry); ok {
			cacheEnt.body = stored
			cacheEnt.compressed = compressed
			cacheEnt.expiresAt = expiresAt
		}

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		body:       stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get retrieves the body for key and marks it as most recently used.
//
// The second result reports whether a fresh entry was found. Expired entries
// are removed and reported as absent. The returned slice is a copy, or the
// decompressed form when the entry was stored compressed.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	ent, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	cacheEnt, ok := ent.Value.(*entry)
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	if time.Now().After(cacheEnt.expiresAt) {
		c.removeElement(ent)
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(ent)

	// Copy fields needed for decompression and release the lock early.
	stored := cacheEnt.body
	compressed := cacheEnt.compressed

	c.lock.Unlock()

	return c.expandBody(stored, compressed)
}

// Remove deletes the entry associated with key from the cache.
//
// Remove reports whether the key was present and removed.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// Keys returns a slice of all keys in the cache, from the oldest to the newest.
//
// Expired entries are included; they are only reaped on Get.
func (c *Cache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, len(c.items))
	index := 0

	// The back of the list is the oldest entry.
	for ent := c.evictList.Back(); ent != nil; ent = ent.Prev() {
		if cacheEnt, ok := ent.Value.(*entry); ok {
			keys[index] = cacheEnt.key
			index++
		}
	}

	return keys
}

// Len returns the current number of items in the cache.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

// removeOldest removes the oldest item from both the linked list and the map.
func (c *Cache) removeOldest() {
	ent := c.evictList.Back()
	if ent != nil {
		c.removeElement(ent)
	}
}

// removeElement removes a specific list element from the eviction list and
// deletes it from the map. Callers must hold the write lock.
func (c *Cache) removeElement(e *list.Element) {
	c.evictList.Remove(e)

	if kv, ok := e.Value.(*entry); ok {
		delete(c.items, kv.key)
	}
}

// prepareBody compresses body when compression is enabled and effective.
// Uncompressed bodies are copied so callers cannot mutate cached data.
func (c *Cache) prepareBody(body []byte) (stored []byte, compressed bool) {
	if len(body) == 0 {
		return body, false
	}

	if c.compressEnabled {
		compressedBytes := c.zstdEnc.EncodeAll(body, nil)
		if len(compressedBytes) < len(body) {
			return compressedBytes, true
		}
	}

	copied := make([]byte, len(body))
	copy(copied, body)

	return copied, false
}

// expandBody returns the actual body to callers, decompressing if needed.
// If decompression fails the entry is considered unavailable.
func (c *Cache) expandBody(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		if stored == nil {
			return nil, true
		}

		copied := make([]byte, len(stored))
		copy(copied, stored)

		return copied, true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
