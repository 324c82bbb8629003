// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/evanmaskanazi/datinglanguage/i18n"
	"github.com/evanmaskanazi/datinglanguage/server/request_context"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

// errorPageShell is the minimal document used for error responses. It goes
// through the same localization keys as the regular pages but is rendered
// directly, so a broken page pipeline can never take the error page with it.
const errorPageShell = `<!DOCTYPE html>
<html lang=%q dir=%q>
<head><meta charset="utf-8"><title>%d</title></head>
<body>
<main class="error-page">
<h1>%d</h1>
<p>%s</p>
<p><a href=%q>Table for Two</a></p>
</main>
</body>
</html>
`

// ErrorPage renders an error page.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)

	statusCode := rc.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	writeErrorShell(w, r, statusCode, "errors.generic", "/")
}

// UnauthorizedPage renders the login prompt for requests that need a session.
// The backend owns the login flow; we only point the user back at it.
func UnauthorizedPage(w http.ResponseWriter, r *http.Request, unauthErr *UnauthorizedError) {
	w.Header().Set("Cache-Control", "no-store")

	returnPath := utils.SanitizeReturnPath(unauthErr.ReturnPath)
	if returnPath == "" {
		returnPath = "/"
	}

	writeErrorShell(w, r, http.StatusUnauthorized, "errors.unauthorized", returnPath)
}

func writeErrorShell(w http.ResponseWriter, r *http.Request, statusCode int, messageKey, homeHref string) {
	locale := request_context.FromRequest(r).Locale

	message := html.EscapeString(i18n.Resolve(locale, messageKey))

	_, err := fmt.Fprintf(w, errorPageShell,
		locale,
		i18n.DirectionOf(locale),
		statusCode,
		statusCode,
		message,
		homeHref,
	)
	if err != nil {
		log.Err(err).Msg("Failed to write error page")
	}
}
