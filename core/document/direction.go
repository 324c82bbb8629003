// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/evanmaskanazi/datinglanguage/i18n"
)

// ApplyDirection applies the text direction derived from code to the whole
// document: the dir attribute on <body> (and <html>, for documents rendered
// standalone) and the switcher's screen-edge positioning class.
//
// It is a pure function of code and holds no state; re-applying it for the
// same locale is a no-op, and switching locales back and forth always lands
// in the same layout.
func ApplyDirection(doc *goquery.Document, code i18n.Code) {
	dir := i18n.DirectionOf(code)

	doc.Find("html").SetAttr("dir", string(dir))
	doc.Find("body").SetAttr("dir", string(dir))

	switcher := doc.Find("." + SwitcherClass)
	if dir == i18n.RTL {
		switcher.AddClass(SwitcherRTLClass)
	} else {
		switcher.RemoveClass(SwitcherRTLClass)
	}
}
