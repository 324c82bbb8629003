// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
//
// NOTE: We don't use the `__Host-` prefix to avoid issues on non-HTTPS
// deployments where the localhost exemption doesn't apply.
const (
	// Session cookies forwarded to the reservation backend.
	TokenCookie CookieName = "Token" // #nosec:G101 - false positive
	CSRFCookie  CookieName = "CSRF"

	// User preference cookies.
	LangCookie  CookieName = "Lang" // active locale code
	ThemeCookie CookieName = "Theme"
)

// AllCookieNames defines all cookies that can be set by the user.
var AllCookieNames = []CookieName{
	TokenCookie,
	CSRFCookie,
	LangCookie,
	ThemeCookie,
}

// httpOnlyCookies are never exposed to client-side scripts.
var httpOnlyCookies = map[CookieName]struct{}{
	TokenCookie: {},
}

// IsHttpOnly reports whether name must carry the HttpOnly attribute.
func IsHttpOnly(name CookieName) bool {
	_, ok := httpOnlyCookies[name]

	return ok
}
