// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"github.com/tidwall/gjson"
)

// emptyCatalog is returned for unconfigured locales so lookups degrade
// instead of failing.
var emptyCatalog = []byte("{}")

// CatalogFor returns the catalog for code as a JSON document, or an empty
// document if no catalog is configured for code. The returned bytes must not
// be modified.
func CatalogFor(code Code) []byte {
	if raw, ok := catalogsByCode[code]; ok {
		return raw
	}

	return emptyCatalog
}

// Resolve looks up a dotted key path in the catalog for code.
//
// The walk descends the catalog tree one segment at a time. If any segment is
// absent, or the path ends on a mapping rather than a string leaf, Resolve
// returns the dotted key unchanged. It never fails and never returns an empty
// string for a non-empty key, so a missing translation stays visible in the
// rendered output.
func Resolve(code Code, key string) string {
	if key == "" {
		return ""
	}

	result := gjson.ParseBytes(CatalogFor(code))

	// Descend one literal segment at a time instead of handing the whole key
	// to gjson as a path, so wildcard and modifier characters in keys are
	// ordinary text rather than query syntax.
	for segment := range strings.SplitSeq(key, ".") {
		result = result.Map()[segment]
	}

	if result.Type == gjson.String {
		return result.String()
	}

	logMissingOnce(code, key)

	return key
}
