// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/evanmaskanazi/datinglanguage/core/untrusted"
	"github.com/evanmaskanazi/datinglanguage/core/validate"
	"github.com/evanmaskanazi/datinglanguage/i18n"
	"github.com/evanmaskanazi/datinglanguage/server/request_context"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

var (
	// localeState holds the durable language preference shared by all
	// requests that carry no locale signal of their own.
	localeState *i18n.State

	// formValidators checks reservation form fields before they are
	// forwarded to the backend.
	formValidators *validate.Registry
)

// Setup wires the shared locale state and form validators into the routes
// package. Called once from main before the router starts serving.
func Setup(state *i18n.State, registry *validate.Registry) {
	localeState = state
	formValidators = registry
}

// effectiveLocale returns the locale for a request.
//
// Any signal on the request wins, in the matcher's priority order: lang
// query parameter, then the locale cookie, then Accept-Language. Only a
// request carrying none of the three falls back to the durable preference.
func effectiveLocale(r *http.Request) i18n.Code {
	signaled := utils.GetQueryParam(r, i18n.LangParam) != "" ||
		untrusted.GetLang(r) != "" ||
		r.Header.Get("Accept-Language") != ""
	if !signaled && localeState != nil {
		return localeState.Active()
	}

	return request_context.FromRequest(r).Locale
}
