// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/evanmaskanazi/datinglanguage/core/cookie"
	"github.com/evanmaskanazi/datinglanguage/core/untrusted"
)

type contextKeyType struct{}

var localeKey = contextKeyType{}

// LangParam is the name of the URL query parameter used by HTTP helpers to
// read a preferred UI language. The cookie counterpart is [cookie.LangCookie].
const LangParam = "lang"

// WithLocale stores code in ctx and returns a derived context carrying it.
// The ctx must not be nil.
func WithLocale(ctx context.Context, code Code) context.Context {
	return context.WithValue(ctx, localeKey, code)
}

// LocaleFrom returns the locale stored in ctx, or BaseLocale if none is
// present. It never returns an empty code.
func LocaleFrom(ctx context.Context) Code {
	if ctx != nil {
		if code, _ := ctx.Value(localeKey).(Code); code != "" {
			return code
		}
	}

	return BaseLocale
}

// FromRequest returns the best supported locale for r by inspecting user
// preferences in priority order:
//  1. query parameter [LangParam]
//  2. cookie [cookie.LangCookie]
//  3. Accept-Language header
//
// Inputs are matched against the loaded locales, so any BCP 47 value
// ("pt-BR", "en-US,en;q=0.5") degrades to the closest supported code.
// If r is nil, or if Setup has not been called, FromRequest returns BaseLocale.
func FromRequest(r *http.Request) Code {
	if r == nil || matcher == nil {
		return BaseLocale
	}

	preferred := make([]string, 0, 3)

	if q := r.URL.Query().Get(LangParam); q != "" {
		preferred = append(preferred, q)
	}

	if c := untrusted.GetCookie(r, cookie.LangCookie); c != "" {
		preferred = append(preferred, c)
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	if len(preferred) == 0 {
		return BaseLocale
	}

	tag, _ := language.MatchStrings(matcher, preferred...)

	// The matcher can return a tag more specific than any supported code
	// (e.g. "he-u-rg-ilzzzz"); reduce it to its base before mapping back.
	if code, ok := codesByTag[tag.String()]; ok {
		return code
	}

	base, _ := tag.Base()
	if code, ok := codesByTag[base.String()]; ok {
		return code
	}

	return BaseLocale
}

// WithRequest resolves the locale from r using [FromRequest] and installs it
// in the returned context. The ctx must not be nil.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithLocale(ctx, FromRequest(r))
}
