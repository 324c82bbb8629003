// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evanmaskanazi/datinglanguage/config"
)

func runRateLimit(remoteAddr, path string) int {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()

	RateLimit(w, r, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return w.Code
}

func TestRateLimit(t *testing.T) {
	config.Global.Limiter.RequestsPerSecond = 1
	config.Global.Limiter.Burst = 2

	t.Cleanup(func() {
		config.Global.Limiter.RequestsPerSecond = 0
		config.Global.Limiter.Burst = 0

		visitorsMu.Lock()
		clear(visitors)
		visitorsMu.Unlock()
	})

	t.Run("ThrottlesAfterBurst", func(t *testing.T) {
		addr := "192.0.2.10:40000"

		assert.Equal(t, http.StatusOK, runRateLimit(addr, "/api/reservations"))
		assert.Equal(t, http.StatusOK, runRateLimit(addr, "/api/reservations"))
		assert.Equal(t, http.StatusTooManyRequests, runRateLimit(addr, "/api/reservations"))
	})

	t.Run("ClientsAreIndependent", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, runRateLimit("192.0.2.11:40000", "/api/reservations"))
	})

	t.Run("StaticAssetsAreExempt", func(t *testing.T) {
		addr := "192.0.2.12:40000"

		// Exhaust the bucket, then confirm asset paths still pass.
		runRateLimit(addr, "/api/reservations")
		runRateLimit(addr, "/api/reservations")
		assert.Equal(t, http.StatusTooManyRequests, runRateLimit(addr, "/api/reservations"))

		assert.Equal(t, http.StatusOK, runRateLimit(addr, "/css/site.css"))
		assert.Equal(t, http.StatusOK, runRateLimit(addr, "/js/switcher.js"))
		assert.Equal(t, http.StatusOK, runRateLimit(addr, "/img/logo.png"))
	})
}
