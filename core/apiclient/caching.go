// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package apiclient

import (
	"hash/fnv"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/evanmaskanazi/datinglanguage/config"
	"github.com/evanmaskanazi/datinglanguage/core/apiclient/cache"
)

var (
	responseCache *cache.Cache

	// excludedCachePaths lists API endpoints for which responses are never cached.
	// Availability and match data go stale the moment someone else books a table.
	excludedCachePaths = []string{
		"/api/tables/available",
		"/api/matches",
		"/api/reservations",
	}
)

// cachePolicy defines the caching behavior for a request.
type cachePolicy struct {
	// Whether to store an OK response that we receive.
	shouldStore bool

	// The cached body if available and fresh.
	cachedBody []byte
}

// Setup initializes the API response cache based on parameters in Global.
//
// It sets up an LRU cache with a specified size and logs the cache parameters.
// If caching is disabled in the configuration, it skips initialization.
func Setup() {
	if !config.Global.Cache.Enabled {
		log.Info().
			Msg("Cache is disabled, skipping cache initialization")

		return
	}

	var err error

	responseCache, err = cache.New(config.Global.Cache.Size, config.Global.Cache.Compression)
	if err != nil {
		panic("failed to create cache: " + err.Error())
	}

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Msg("Initialized API response cache")
}

// generateCacheKey binds cached responses to both the request URL and the full
// session token by combining them into a hashed identifier.
//
// Hashing the entire token alongside the URL ensures responses remain strictly
// scoped to the exact session that originally requested them. Keying on a user
// ID alone would let a forged token read another user's cached private data.
func generateCacheKey(url, token string) string {
	hasher := fnv.New32()

	_, _ = hasher.Write([]byte(url + ":" + token))

	return strconv.FormatUint(uint64(hasher.Sum32()), 16)
}

// determineCachePolicy determines the caching policy for a given request.
//
// It returns a cachePolicy struct indicating whether a fresh cached response
// is available, or whether a new response should be stored in the cache.
func determineCachePolicy(rawURL, token string, headers http.Header) cachePolicy {
	if !config.Global.Cache.Enabled || responseCache == nil {
		return cachePolicy{}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return cachePolicy{} // Invalid URL, don't cache.
	}

	// Never cache responses for excluded paths.
	cleanPath := path.Clean(parsedURL.Path)
	for _, exclPath := range excludedCachePaths {
		if strings.HasPrefix(cleanPath, exclPath) {
			return cachePolicy{}
		}
	}

	// Honor "no-cache" directive from the downstream client: skip both read and write.
	lowerCacheControl := strings.ToLower(headers.Get("Cache-Control"))
	if strings.Contains(lowerCacheControl, "no-cache") {
		return cachePolicy{}
	}

	// Try to serve a fresh cached response immediately. Expiry is handled
	// inside the cache itself.
	if body, found := responseCache.Get(generateCacheKey(rawURL, token)); found {
		return cachePolicy{
			shouldStore: false,
			cachedBody:  body,
		}
	}

	return cachePolicy{
		shouldStore: !strings.Contains(lowerCacheControl, "no-store"),
	}
}

// storeResponse caches a successful GET response body.
func storeResponse(rawURL, token string, body []byte) {
	if responseCache == nil {
		return
	}

	responseCache.Add(generateCacheKey(rawURL, token), body, config.Global.Cache.TTL)
}
