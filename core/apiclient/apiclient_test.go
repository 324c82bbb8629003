// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanmaskanazi/datinglanguage/config"
)

func TestProcessJSONResponse(t *testing.T) {
	t.Parallel()

	t.Run("SuccessEnvelope", func(t *testing.T) {
		t.Parallel()

		data, err := processJSONResponse([]byte(`{"success":true,"data":{"restaurant":"Aria"}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"restaurant":"Aria"}`, string(data))
	})

	t.Run("FailureEnvelope", func(t *testing.T) {
		t.Parallel()

		_, err := processJSONResponse([]byte(`{"success":false,"error":"slot already booked"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errAPIResponseError)
		assert.Contains(t, err.Error(), "slot already booked")
	})

	t.Run("FailureEnvelopeWithoutMessage", func(t *testing.T) {
		t.Parallel()

		_, err := processJSONResponse([]byte(`{"success":false}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errAPIResponseError)
	})

	t.Run("BareResponsePassesThrough", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"status":"healthy"}`)

		data, err := processJSONResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		t.Parallel()

		_, err := processJSONResponse([]byte(`{"success":`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errInvalidJSON)
	})
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	apiErr := &APIError{
		StatusCode: 409,
		Message:    "table no longer available",
		Err:        errAPIResponseError,
	}

	assert.Contains(t, apiErr.Error(), "table no longer available")
	assert.Contains(t, apiErr.Error(), "409")
	assert.True(t, errors.Is(apiErr, errAPIResponseError))
}

func TestGenerateCacheKey(t *testing.T) {
	t.Parallel()

	first := generateCacheKey("http://localhost:5000/api/profile", "token-a")
	second := generateCacheKey("http://localhost:5000/api/profile", "token-a")
	assert.Equal(t, first, second, "same URL and token must map to the same key")

	other := generateCacheKey("http://localhost:5000/api/profile", "token-b")
	assert.NotEqual(t, first, other, "responses must be scoped per session token")
}

func TestPostJSONDataRequiresCSRF(t *testing.T) {
	t.Parallel()

	_, err := PostJSONData(t.Context(), "http://localhost:5000/api/reservations", nil, "tok", "", nil)
	assert.ErrorIs(t, err, errMissingCSRF)
}

func TestGetJSONData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)

		sessionCookie, err := r.Cookie(backendSessionCookie)
		require.NoError(t, err)
		assert.Equal(t, "session-token", sessionCookie.Value)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"name":"Dana"}}`)
	}))
	defer server.Close()

	data, err := GetJSONData(t.Context(), server.URL+"/api/user/profile", "session-token", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Dana"}`, string(data))
}

func TestDoAppliesBackendTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	savedTimeout := config.Global.Backend.Timeout
	config.Global.Backend.Timeout = 50 * time.Millisecond

	t.Cleanup(func() { config.Global.Backend.Timeout = savedTimeout })

	_, err := GetJSONData(t.Context(), server.URL+"/api/user/profile", "tok", nil)
	require.Error(t, err)
	assert.True(t, IsContextCanceled(err))
}
