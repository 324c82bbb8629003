// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"

	"github.com/evanmaskanazi/datinglanguage/core/cookie"
)

// GetUserToken returns the backend session token, or "" when logged out.
func GetUserToken(r *http.Request) string {
	return GetCookie(r, cookie.TokenCookie)
}

// GetCSRFToken returns the backend CSRF token, or "" when absent.
// Mutating backend calls fail without it.
func GetCSRFToken(r *http.Request) string {
	return GetCookie(r, cookie.CSRFCookie)
}

// GetLang returns the raw persisted locale cookie. The value is
// user-controlled; resolve it through the i18n matcher before applying.
func GetLang(r *http.Request) string {
	return GetCookie(r, cookie.LangCookie)
}
