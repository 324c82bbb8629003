// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build test

/*
These tests seed locale catalogs through i18n.LoadForTests; run them with
`go test -tags test`.
*/
package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/evanmaskanazi/datinglanguage/core/prefs"
	"github.com/evanmaskanazi/datinglanguage/core/validate"
	"github.com/evanmaskanazi/datinglanguage/i18n"
	"github.com/evanmaskanazi/datinglanguage/server/request_context"
)

// setupRoutes seeds catalogs and wires fresh shared state, returning the
// state so tests can inspect the durable preference.
func setupRoutes(t *testing.T) *i18n.State {
	t.Helper()

	i18n.LoadForTests(map[i18n.Code]string{
		"en": `{"greeting":"Hello","forms":{"errors":{"party_size":"Party size must be between 2 and 8."}}}`,
		"he": `{"greeting":"שלום"}`,
	})
	t.Cleanup(i18n.ResetForTests)

	state := i18n.NewState(prefs.NewMemoryStore())
	state.Initialize()

	Setup(state, validate.Default())
	t.Cleanup(func() { Setup(nil, nil) })

	return state
}

// newContextRequest builds a request carrying the resolved request context,
// as the middleware chain would.
func newContextRequest(r *http.Request) *http.Request {
	return r.WithContext(request_context.WithRequestContext(r.Context(), r))
}

func TestSettingsLanguage(t *testing.T) {
	state := setupRoutes(t)

	form := url.Values{}
	form.Set("language", "he")
	form.Set("returnPath", "/pages/browse")

	r := httptest.NewRequest(http.MethodPost, "/settings/language", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.SetPathValue("action", "language")
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	require.NoError(t, SettingsPOST(w, r))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/pages/browse", w.Header().Get("Location"))

	// Durable preference and cookie move together.
	assert.Equal(t, i18n.Code("he"), state.Active())

	var langCookie *http.Cookie

	for _, c := range w.Result().Cookies() {
		if c.Name == "Lang" {
			langCookie = c
		}
	}

	require.NotNil(t, langCookie)
	assert.Equal(t, "he", langCookie.Value)
}

func TestSettingsLanguageUnsupported(t *testing.T) {
	state := setupRoutes(t)

	form := url.Values{}
	form.Set("language", "tlh")

	r := httptest.NewRequest(http.MethodPost, "/settings/language", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.SetPathValue("action", "language")
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	err := SettingsPOST(w, r)

	require.ErrorIs(t, err, i18n.ErrUnsupportedLocale)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, i18n.BaseLocale, state.Active())
}

func TestSettingsUnknownAction(t *testing.T) {
	setupRoutes(t)

	r := httptest.NewRequest(http.MethodPost, "/settings/bogus", nil)
	r.SetPathValue("action", "bogus")
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	err := SettingsPOST(w, r)

	require.ErrorIs(t, err, errNoSuchSetting)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsReturnPathSanitized(t *testing.T) {
	setupRoutes(t)

	form := url.Values{}
	form.Set("language", "he")
	form.Set("returnPath", "https://evil.example/phish")

	r := httptest.NewRequest(http.MethodPost, "/settings/language", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.SetPathValue("action", "language")
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	require.NoError(t, SettingsPOST(w, r))

	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLocaleAPI(t *testing.T) {
	state := setupRoutes(t)
	require.NoError(t, state.SetLocale("he"))

	r := newContextRequest(httptest.NewRequest(http.MethodGet, "/api/locale", nil))
	w := httptest.NewRecorder()

	require.NoError(t, LocaleAPI(w, r))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "he", gjson.Get(body, "data.active").String())
	assert.Equal(t, "rtl", gjson.Get(body, "data.direction").String())
	assert.Equal(t, int64(2), gjson.Get(body, "data.supported.#").Int())
}

func TestLocaleAPIExplicitSignalWins(t *testing.T) {
	state := setupRoutes(t)
	require.NoError(t, state.SetLocale("he"))

	// The lang query parameter overrides the durable preference.
	r := newContextRequest(httptest.NewRequest(http.MethodGet, "/api/locale?lang=en", nil))
	w := httptest.NewRecorder()

	require.NoError(t, LocaleAPI(w, r))
	assert.Equal(t, "en", gjson.Get(w.Body.String(), "data.active").String())
}

func TestLocaleAPIAcceptLanguageHeader(t *testing.T) {
	setupRoutes(t)

	// The durable preference stays at en; the browser header alone should
	// pick the locale for this request.
	r := httptest.NewRequest(http.MethodGet, "/api/locale", nil)
	r.Header.Set("Accept-Language", "he-IL,he;q=0.9,en;q=0.5")
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	require.NoError(t, LocaleAPI(w, r))

	assert.Equal(t, "he", gjson.Get(w.Body.String(), "data.active").String())
}

func TestBootstrapAPIAnonymous(t *testing.T) {
	setupRoutes(t)

	r := newContextRequest(httptest.NewRequest(http.MethodGet, "/api/bootstrap", nil))
	w := httptest.NewRecorder()

	require.NoError(t, BootstrapAPI(w, r))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "en", gjson.Get(body, "data.locale").String())
	assert.Equal(t, "Hello", gjson.Get(body, "data.catalog.greeting").String())

	// No token means no backend fetch and no profile section.
	assert.False(t, gjson.Get(body, "data.profile").Exists())
}

func TestReservationsAPIRequiresLogin(t *testing.T) {
	setupRoutes(t)

	r := newContextRequest(httptest.NewRequest(http.MethodPost, "/api/reservations", nil))
	w := httptest.NewRecorder()

	err := ReservationsAPI(w, r)

	var unauthErr *UnauthorizedError
	require.ErrorAs(t, err, &unauthErr)
	assert.Equal(t, "/pages/reservations", unauthErr.ReturnPath)
}

func TestReservationsAPIValidation(t *testing.T) {
	setupRoutes(t)

	form := url.Values{}
	form.Set("restaurant_id", "42")
	form.Set("date", "2030-01-15")
	form.Set("time", "19:00")
	form.Set("party_size", "12")

	r := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "Token", Value: "session-token"})
	r = newContextRequest(r)

	w := httptest.NewRecorder()
	require.NoError(t, ReservationsAPI(w, r))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.False(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "party_size", gjson.Get(body, "field").String())
	assert.Equal(t, "Party size must be between 2 and 8.", gjson.Get(body, "error").String())
}

func TestHealthPage(t *testing.T) {
	setupRoutes(t)

	r := newContextRequest(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	w := httptest.NewRecorder()

	require.NoError(t, HealthPage(w, r))

	assert.Equal(t, "healthy", gjson.Get(w.Body.String(), "status").String())
}
