// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package document rewrites parsed HTML pages for the active locale.

Pages opt elements into translation with a data-i18n attribute holding a
dotted translation key. Translate resolves each key and rewrites only the
element's own text, so child elements survive and repeated passes are
lossless: switching locale re-resolves from the key attribute, never from
previously rendered text.

EnsureSwitcher injects the floating locale switcher exactly once, and
ApplyDirection toggles right-to-left layout for Hebrew and Arabic.
*/
package document
