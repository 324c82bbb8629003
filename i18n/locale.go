// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Code identifies a supported locale, for example "en" or "he".
type Code string

// BaseLocale is the default locale used when no preference is set or a
// requested locale is unsupported. It starts as "en" and Setup moves it to
// localization.defaultLocale when that names a loaded catalog.
var BaseLocale Code = "en"

// Direction is a text flow direction.
type Direction string

// Possible text flow directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// rtlLocales is the set of supported locales written right-to-left.
var rtlLocales = map[Code]struct{}{
	"he": {},
	"ar": {},
}

// DirectionOf derives the text direction for a locale. It is a pure function
// of the code: unknown codes are treated as left-to-right.
func DirectionOf(code Code) Direction {
	if _, ok := rtlLocales[code]; ok {
		return RTL
	}

	return LTR
}

// IsSupported reports whether a catalog was loaded for code.
//
// Setup must be called successfully before using IsSupported; beforehand it
// only recognizes nothing.
func IsSupported(code Code) bool {
	_, ok := catalogsByCode[code]

	return ok
}

// Supported returns the supported locale codes with BaseLocale first and the
// rest sorted by code. The returned slice is a copy and safe to retain.
//
// Setup must be called successfully before using Supported; otherwise it panics.
func Supported() []Code {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Supported")
	}

	out := make([]Code, len(supportedCodes))
	copy(out, supportedCodes)

	return out
}

// NativeName returns the locale's self-name for switcher labels, for example
// "עברית" for "he". Unknown codes come back unchanged.
func NativeName(code Code) string {
	tag, err := language.Parse(string(code))
	if err != nil {
		return string(code)
	}

	if name := display.Self.Name(tag); name != "" {
		return name
	}

	return string(code)
}
