// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default cache TTL in minutes.
	defaultCacheTTLMinutes = 15
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60

	// Default backend timeout in seconds.
	defaultBackendTimeoutSeconds = 10
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.Backend.BaseURL = "http://localhost:5000"
	cfg.Backend.Timeout = defaultBackendTimeoutSeconds * time.Second

	cfg.Cache.Enabled = false
	cfg.Cache.Size = 100
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compression = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Limiter.Enabled = false
	cfg.Limiter.RequestsPerSecond = 10
	cfg.Limiter.Burst = 20

	cfg.Instance.RepoURL = "https://github.com/evanmaskanazi/datinglanguage"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Localization.DefaultLocale = "en"
	cfg.Localization.StateFilepath = "./data/locale_state.json"
	cfg.Localization.StrictMissingKeys = false
}
