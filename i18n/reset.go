// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build test

/*
This file is included only when built with '-tags test'.
It provides a reset hook for unit tests. It is not part of production builds.
*/

package i18n

import (
	"sync"
)

// LoadForTests installs catalogs directly, bypassing the embedded assets.
// Each value must be a JSON document of string leaves. Call ResetForTests to
// clear the installed catalogs afterwards.
//
// Usage:
//
//	go test -tags test ./...
func LoadForTests(catalogs map[Code]string) {
	catalogsByCode = make(map[Code][]byte, len(catalogs))
	for code, raw := range catalogs {
		catalogsByCode[code] = []byte(raw)
	}

	codesByTag = make(map[string]Code)
	buildMatcher()
}

// ResetForTests clears package state so tests can exercise Setup multiple times.
//
// Usage:
//
//	go test -tags test ./...
//
// Concurrency: only call from tests before spinning up any goroutines that
// use this package. After resetting, call Setup again to initialize.
func ResetForTests() {
	// Clear missing translation dedupe state.
	missingKeyOnce = sync.Map{}

	// Clear loaded catalogs and matcher.
	catalogsByCode = nil
	supportedCodes = nil
	matcher = nil
	codesByTag = nil

	BaseLocale = "en"
}
