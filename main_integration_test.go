// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// TestMain is used for global setup and teardown.
//
// It starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	os.Setenv("DATINGLANG_HOST", "127.0.0.1")
	os.Setenv("DATINGLANG_PORT", "8282")
	os.Setenv("DATINGLANG_LOCALE_STATE_FILEPATH", os.TempDir()+"/tft_locale_state.json")

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func fetch(t *testing.T, path string, cookies []*http.Cookie) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, authority+path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request to %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	return resp.StatusCode, resp.Header, string(body)
}

// TestPageLocalization checks that embedded pages are served with translated
// text, the language switcher, and correct document attributes.
func TestPageLocalization(t *testing.T) {
	status, headers, body := fetch(t, "/pages/browse", nil)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if got := headers.Get("Content-Language"); got != "en" {
		t.Errorf("expected Content-Language en, got %q", got)
	}

	if strings.Contains(body, "data-i18n=") && strings.Contains(body, "nav.browse") {
		t.Error("page still contains unresolved translation keys")
	}

	if !strings.Contains(body, `class="language-switcher"`) {
		t.Error("page is missing the language switcher")
	}
}

// TestPageLocalizationHebrew checks that a Hebrew cookie yields translated,
// right-to-left output.
func TestPageLocalizationHebrew(t *testing.T) {
	cookie := &http.Cookie{Name: "Lang", Value: "he"}

	status, headers, body := fetch(t, "/pages/browse", []*http.Cookie{cookie})

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if got := headers.Get("Content-Language"); got != "he" {
		t.Errorf("expected Content-Language he, got %q", got)
	}

	if !strings.Contains(body, `dir="rtl"`) {
		t.Error("expected right-to-left document direction")
	}
}

// TestUnknownPage checks that requests for pages outside the embedded set
// return a localized error page rather than a raw 404.
func TestUnknownPage(t *testing.T) {
	status, _, _ := fetch(t, "/pages/nonexistent", nil)

	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

// TestLocaleAPI checks the locale listing endpoint.
func TestLocaleAPI(t *testing.T) {
	status, _, body := fetch(t, "/api/locale", nil)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	for _, code := range []string{`"en"`, `"he"`, `"ar"`, `"ru"`} {
		if !strings.Contains(body, code) {
			t.Errorf("locale listing is missing %s", code)
		}
	}
}

// TestSwitchLanguage performs the settings round-trip: posting a language
// change should set the cookie and redirect back.
func TestSwitchLanguage(t *testing.T) {
	form := url.Values{}
	form.Set("language", "ru")
	form.Set("returnPath", "/pages/browse")

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.PostForm(authority+"/settings/language", form)
	if err != nil {
		t.Fatalf("settings request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	if got := resp.Header.Get("Location"); got != "/pages/browse" {
		t.Errorf("expected redirect to /pages/browse, got %q", got)
	}

	var langCookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == "Lang" {
			langCookie = c
		}
	}

	if langCookie == nil || langCookie.Value != "ru" {
		t.Fatalf("expected Lang cookie set to ru, got %+v", langCookie)
	}
}

// TestHealthz checks the health endpoint.
func TestHealthz(t *testing.T) {
	status, _, body := fetch(t, "/healthz", nil)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if !strings.Contains(body, `"healthy"`) {
		t.Errorf("unexpected health payload: %s", body)
	}
}
