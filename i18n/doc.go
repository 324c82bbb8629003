// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides the locale core of the application: translation
catalogs, dotted-key resolution, the active-locale state, and text
directionality.

# Catalogs

Each supported locale has one YAML catalog under assets/locales/<code>.yaml,
a pure tree of string leaves grouped by nested mappings. Catalogs are loaded
once by Setup and are immutable afterwards.

# Resolution

Strings are addressed by dotted key paths:

	i18n.Resolve("ru", "nav.reservations")

A lookup that misses, either through an absent segment or a path that stops
on a mapping instead of a string leaf, returns the dotted key unchanged. Missing
translations therefore stay visible in rendered output instead of going
blank, which is what makes gaps debuggable for content authors. When
localization.strictMissingKeys is enabled, each missing (locale, key) pair is
additionally logged once at WARN.

# Locale state

State holds the active locale for one user of the library. It is an
explicitly constructed value, not package state: construct one per process
(or per test) with NewState, backed by any prefs.Store. SetLocale validates,
persists, and broadcasts a Change to subscribers.

# Directionality

DirectionOf derives text direction from the locale; Hebrew and Arabic are
right-to-left, everything else left-to-right.
*/
package i18n
