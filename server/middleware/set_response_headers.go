// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"github.com/evanmaskanazi/datinglanguage/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Tablefortwo-Version and Tablefortwo-Revision are added dynamically
	// in SetResponseHeaders.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// csp defines the Content-Security-Policy. Every asset the pages use is
	// served from this origin; inline styles are allowed for the switcher.
	csp = strings.Join([]string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"img-src 'self' data:",
		"script-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ") + ";"

	// defaultPermissionsPolicy defines the default Permissions-Policy header.
	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"battery=()",
		"camera=()",
		"display-capture=()",
		"document-domain=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"midi=()",
		"payment=()",
		"screen-wake-lock=()",
		"sync-xhr=()",
		"usb=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Tablefortwo-Version", config.BuildVersion)
	headers.Set("Tablefortwo-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", csp)

	next.ServeHTTP(w, r)
}

// for `invalidateCacheInDevelopment`
var firstDevResponse = true

// clear cache in development
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse {
		firstDevResponse = false

		headers.Set("Clear-Site-Data", "cache")
	}
}

// setCacheControl sets appropriate cache control headers for static assets.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation.
	// Translated pages vary by locale cookie, so they must not be shared.
	cacheDuration := "private, no-cache"

	// Longer caching for fonts and icons (1 month)
	if strings.HasPrefix(path, "/fonts/") || strings.HasPrefix(path, "/icons/") {
		cacheDuration = "max-age=2592000"
	}

	// JavaScript and CSS get a moderate cache time (1 week)
	if strings.HasPrefix(path, "/js/") || strings.HasPrefix(path, "/css/") {
		cacheDuration = "max-age=604800"
	}

	// Images can be cached for 2 weeks
	if strings.HasPrefix(path, "/img/") {
		cacheDuration = "max-age=1209600"
	}

	// Text files (robots.txt) and JSON files (manifest.json) get moderate caching (1 day)
	if strings.HasSuffix(path, ".txt") || strings.HasSuffix(path, ".json") {
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
