// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/evanmaskanazi/datinglanguage/config"
)

// visitorIdleTTL is how long an idle client keeps its limiter before
// the cleanup pass drops it.
const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitorsMu sync.Mutex
	visitors   = map[string]*visitor{}
)

// limiterExemptPrefixes lists path prefixes the limiter never throttles.
// Static assets are fetched in bursts by design.
var limiterExemptPrefixes = []string{"/img/", "/css/", "/js/"}

func isLimiterExempt(path string) bool {
	for _, prefix := range limiterExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// RateLimit throttles requests per client IP using a token bucket.
//
// Booking forms invite double-submits; the POST endpoints are the reason this
// exists.
func RateLimit(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if isLimiterExempt(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !limiterFor(host).Allow() {
		log.Warn().
			Str("ip", host).
			Str("path", r.URL.Path).
			Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", "1")
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

// limiterFor returns the limiter for host, creating it on first sight.
func limiterFor(host string) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, ok := visitors[host]
	if !ok {
		v = &visitor{
			limiter: rate.NewLimiter(
				rate.Limit(config.Global.Limiter.RequestsPerSecond),
				config.Global.Limiter.Burst,
			),
		}
		visitors[host] = v
	}

	v.lastSeen = time.Now()

	return v.limiter
}

// StartRateLimitCleanup periodically drops limiters for idle clients.
// It runs until done is closed and is started from main.
func StartRateLimitCleanup(done <-chan struct{}) {
	ticker := time.NewTicker(visitorIdleTTL)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-visitorIdleTTL)

				visitorsMu.Lock()
				for host, v := range visitors {
					if v.lastSeen.Before(cutoff) {
						delete(visitors, host)
					}
				}
				visitorsMu.Unlock()
			}
		}
	}()
}
