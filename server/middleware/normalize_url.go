// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// legacyPages maps the flat .html paths the old site served to their
// canonical locations, so bookmarks keep working.
var legacyPages = map[string]string{
	"/browse.html":       "/pages/browse",
	"/profile.html":      "/pages/profile",
	"/reservations.html": "/pages/reservations",
}

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Redirecting legacy flat .html paths to their /pages/ equivalents.
// 2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if target, ok := legacyPages[r.URL.Path]; ok {
		redirectToCanonical(w, r, target)

		return
	}

	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	// No normalization needed, continue to next handler
	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	url := r.URL

	if len(url.Path) > 1 {
		url.Path = strings.TrimSuffix(url.Path, "/")
	}

	http.Redirect(w, r, url.String(), http.StatusPermanentRedirect)
}

// redirectToCanonical redirects to target, preserving the query string.
func redirectToCanonical(w http.ResponseWriter, r *http.Request, target string) {
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
