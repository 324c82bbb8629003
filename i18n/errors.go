// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "errors"

var (
	// ErrUnsupportedLocale is returned by State.SetLocale for a code with no
	// loaded catalog. The state is left unchanged.
	ErrUnsupportedLocale = errors.New("unsupported locale")

	errBaseCatalogMissing = errors.New("base locale catalog missing")
	errNonStringLeaf      = errors.New("catalog leaf is not a string")
)
