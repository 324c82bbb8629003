// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/evanmaskanazi/datinglanguage/i18n"
)

// Class names making up the switcher contract. SwitcherClass doubles as the
// idempotence marker: a document already containing it is never given a
// second switcher.
const (
	SwitcherClass    = "language-switcher"
	SwitcherRTLClass = "language-switcher--rtl"
	ControlClass     = "lang-option"
	ActiveClass      = "active"

	// LangAttr carries the locale code each control activates.
	LangAttr = "data-lang"
)

// EnsureSwitcher makes sure doc contains exactly one locale switcher and that
// the control for active is the one marked active.
//
// On first call it appends a floating control to <body> with one button per
// supported locale. On later calls it only refreshes the active marking, so
// re-running the page pipeline never duplicates the control.
func EnsureSwitcher(doc *goquery.Document, active i18n.Code) {
	existing := doc.Find("." + SwitcherClass)
	if existing.Length() > 0 {
		markActive(existing, active)

		return
	}

	var b strings.Builder

	b.WriteString(`<nav class="` + SwitcherClass + `">`)

	for _, code := range i18n.Supported() {
		b.WriteString(fmt.Sprintf(
			`<button type="button" class="%s" %s="%s" title="%s">%s</button>`,
			ControlClass,
			LangAttr,
			code,
			html.EscapeString(i18n.NativeName(code)),
			strings.ToUpper(string(code)),
		))
	}

	b.WriteString(`</nav>`)

	doc.Find("body").AppendHtml(b.String())

	markActive(doc.Find("."+SwitcherClass), active)
}

// markActive moves the active class onto the control matching code and off
// every sibling.
func markActive(switcher *goquery.Selection, active i18n.Code) {
	switcher.Find("." + ControlClass).Each(func(_ int, sel *goquery.Selection) {
		if code, _ := sel.Attr(LangAttr); i18n.Code(code) == active {
			sel.AddClass(ActiveClass)
		} else {
			sel.RemoveClass(ActiveClass)
		}
	})
}
