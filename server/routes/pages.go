// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/evanmaskanazi/datinglanguage/core/document"
	"github.com/evanmaskanazi/datinglanguage/server/assets"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

// pageDir is the embedded directory holding the annotated page templates.
const pageDir = "assets/pages"

// defaultPage is what the index route serves.
const defaultPage = "browse"

// pageNameRegexp accepts only simple page names, keeping path traversal out
// of the embedded FS lookup.
var pageNameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// IndexPage serves the default page at the root path.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	return renderPage(w, r, defaultPage)
}

// Page serves a named page: GET /pages/{page}.
func Page(w http.ResponseWriter, r *http.Request) error {
	return renderPage(w, r, utils.GetPathVar(r, "page"))
}

// renderPage runs the localization pipeline over an embedded page template:
// parse, inject the locale switcher, translate tagged elements, apply text
// direction, serialize.
func renderPage(w http.ResponseWriter, r *http.Request, name string) error {
	start := time.Now()

	if !pageNameRegexp.MatchString(name) {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}

	raw, err := assets.FS.ReadFile(pageDir + "/" + name + ".html")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.WriteHeader(http.StatusNotFound)

			return nil
		}

		return fmt.Errorf("failed to read page %s: %w", name, err)
	}

	locale := effectiveLocale(r)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to parse page %s: %w", name, err)
	}

	document.EnsureSwitcher(doc, locale)
	document.Translate(doc, locale)
	document.ApplyDirection(doc, locale)

	rendered, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to serialize page %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(locale))
	utils.AddServerTimingHeader(w, "render", time.Since(start), "page localization")

	_, err = w.Write([]byte(rendered))

	return err
}
