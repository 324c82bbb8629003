// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/evanmaskanazi/datinglanguage/i18n"
)

// KeyAttr is the attribute that opts an element into translation. Its value
// is a dotted translation key.
const KeyAttr = "data-i18n"

// Translate rewrites the text of every element bearing [KeyAttr] with the
// key's resolution for code.
//
// Only text content is touched: child elements are preserved, and the key
// attribute itself is never removed, so calling Translate repeatedly (or for
// a different locale) always recomputes from the source key. Keys that do not
// resolve render as themselves, which keeps translation gaps visible.
func Translate(doc *goquery.Document, code i18n.Code) {
	doc.Find("[" + KeyAttr + "]").Each(func(_ int, sel *goquery.Selection) {
		key, _ := sel.Attr(KeyAttr)
		if key == "" {
			return
		}

		setOwnText(sel, i18n.Resolve(code, key))
	})
}

// setOwnText replaces the direct text nodes of each element in sel with a
// single text node, leaving element children in place.
//
// The first existing text node is rewritten in position; any further text
// nodes are dropped. An element with no text node gets one prepended so the
// translation lands before any child markup.
func setOwnText(sel *goquery.Selection, text string) {
	for _, node := range sel.Nodes {
		var first *html.Node

		child := node.FirstChild
		for child != nil {
			next := child.NextSibling

			if child.Type == html.TextNode {
				if first == nil {
					first = child
				} else {
					node.RemoveChild(child)
				}
			}

			child = next
		}

		if first != nil {
			first.Data = text

			continue
		}

		textNode := &html.Node{Type: html.TextNode, Data: text}
		if node.FirstChild != nil {
			node.InsertBefore(textNode, node.FirstChild)
		} else {
			node.AppendChild(textNode)
		}
	}
}
