// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cache

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const testTTL = time.Minute

// TestNew checks the creation of a new Cache with both valid and invalid sizes.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize_NoCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := New(3, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cache == nil {
			t.Fatal("expected cache to be initialized")
		}

		if cache.Len() != 0 {
			t.Errorf("expected cache length to be 0, got %d", cache.Len())
		}
	})

	t.Run("ValidSize_WithCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := New(3, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cache == nil {
			t.Fatal("expected cache to be initialized")
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := New(0, false)
		if err == nil {
			t.Fatal("expected error when creating cache of size 0, got nil")
		}

		if cache != nil {
			t.Error("expected no cache to be returned on error")
		}
	})
}

// TestCache_AddAndGet verifies that adding a key and retrieving it works,
// and that eviction occurs once the capacity is reached.
func TestCache_AddAndGet(t *testing.T) {
	t.Parallel()

	cache, err := New(2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if evicted := cache.Add("a", []byte("body-a"), testTTL); evicted {
		t.Error("did not expect eviction on first insert")
	}

	cache.Add("b", []byte("body-b"), testTTL)

	got, ok := cache.Get("a")
	if !ok || !bytes.Equal(got, []byte("body-a")) {
		t.Errorf("Get(a) = %q, %v; want body-a, true", got, ok)
	}

	// "b" is now the least recently used and should be evicted.
	if evicted := cache.Add("c", []byte("body-c"), testTTL); !evicted {
		t.Error("expected eviction when exceeding capacity")
	}

	if _, ok := cache.Get("b"); ok {
		t.Error("expected b to have been evicted")
	}

	if cache.Len() != 2 {
		t.Errorf("expected cache length 2, got %d", cache.Len())
	}
}

// TestCache_Expiry verifies that expired entries are reported as absent
// and removed on Get.
func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	cache, err := New(2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Add("stale", []byte("old"), -time.Second)

	if _, ok := cache.Get("stale"); ok {
		t.Error("expected expired entry to be absent")
	}

	if cache.Len() != 0 {
		t.Errorf("expected expired entry to be reaped, length %d", cache.Len())
	}
}

// TestCache_Compression verifies transparent round-tripping of a
// highly compressible body.
func TestCache_Compression(t *testing.T) {
	t.Parallel()

	cache, err := New(2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := []byte(strings.Repeat("table for two ", 512))
	cache.Add("big", body, testTTL)

	got, ok := cache.Get("big")
	if !ok {
		t.Fatal("expected to retrieve compressed entry")
	}

	if !bytes.Equal(got, body) {
		t.Error("compressed entry did not round-trip")
	}
}

// TestCache_GetReturnsCopy verifies that mutating a returned body does not
// corrupt the cached value.
func TestCache_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	cache, err := New(1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Add("k", []byte("original"), testTTL)

	first, _ := cache.Get("k")
	first[0] = 'X'

	second, _ := cache.Get("k")
	if !bytes.Equal(second, []byte("original")) {
		t.Errorf("cached value was mutated: %q", second)
	}
}

// TestCache_Concurrent exercises the cache from multiple goroutines.
func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache, err := New(32, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				key := strconv.Itoa((worker + i) % 48)
				cache.Add(key, []byte(strings.Repeat(key, 64)), testTTL)
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	if cache.Len() > 32 {
		t.Errorf("cache exceeded capacity: %d", cache.Len())
	}
}
