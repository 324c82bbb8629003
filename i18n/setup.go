// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/evanmaskanazi/datinglanguage/config"
	"github.com/evanmaskanazi/datinglanguage/server/assets"
)

// localeDir is the embedded directory holding one YAML catalog per locale.
const localeDir = "assets/locales"

var (
	// catalogsByCode maps locale codes to their catalog, stored as a JSON
	// document so lookups can run directly over it.
	catalogsByCode map[Code][]byte

	// supportedCodes holds the codes for which a catalog was loaded,
	// BaseLocale first, the rest sorted.
	supportedCodes []Code

	// matcher matches arbitrary BCP 47 inputs to a supported locale.
	matcher language.Matcher

	// codesByTag maps canonical matched tag strings back to locale codes.
	codesByTag map[string]Code
)

// Setup initialises package i18n by loading the YAML catalogs from embedded
// assets and constructing a language matcher over the loaded locales.
//
// The expected layout is:
//
//	assets/locales/<code>.yaml
//
// Every catalog must be a pure tree of string leaves; a catalog containing
// any other leaf type fails Setup. The base locale catalog is required.
//
// Calling Setup again replaces the previously loaded catalogs and matcher.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	catalogsByCode = make(map[Code][]byte)
	supportedCodes = nil
	matcher = nil
	codesByTag = make(map[string]Code)

	entries, err := fs.ReadDir(assets.FS, localeDir)
	if err != nil {
		return fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		code := Code(strings.TrimSuffix(entry.Name(), ".yaml"))

		raw, err := loadCatalog(path.Join(localeDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("catalog %q: %w", code, err)
		}

		catalogsByCode[code] = raw

		Logger.Info().
			Str("locale", string(code)).
			Msg("Loaded locale catalog")
	}

	applyDefaultLocale(Code(config.Global.Localization.DefaultLocale))

	if _, ok := catalogsByCode[BaseLocale]; !ok {
		return fmt.Errorf("%w: %q", errBaseCatalogMissing, BaseLocale)
	}

	buildMatcher()

	return nil
}

// applyDefaultLocale moves BaseLocale to the configured default when that
// code has a loaded catalog. An unknown code keeps the built-in default so a
// config typo cannot take the fallback locale away.
func applyDefaultLocale(code Code) {
	BaseLocale = "en"

	if code == "" || code == BaseLocale {
		return
	}

	if _, ok := catalogsByCode[code]; !ok {
		Logger.Warn().
			Str("locale", string(code)).
			Msg("Configured default locale has no catalog, keeping en")

		return
	}

	BaseLocale = code
}

// loadCatalog reads one YAML catalog, validates the tree invariant, and
// returns it re-encoded as JSON.
func loadCatalog(name string) ([]byte, error) {
	data, err := fs.ReadFile(assets.FS, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := checkTree("", tree); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode catalog: %w", err)
	}

	return raw, nil
}

// checkTree enforces that every leaf of a catalog is a string.
func checkTree(prefix string, node map[string]any) error {
	for key, value := range node {
		keyPath := key
		if prefix != "" {
			keyPath = prefix + "." + key
		}

		switch child := value.(type) {
		case string:
		case map[string]any:
			if err := checkTree(keyPath, child); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w at %q (%T)", errNonStringLeaf, keyPath, value)
		}
	}

	return nil
}

// buildMatcher derives the supported code list and the language matcher from
// the loaded catalogs. BaseLocale goes first so it is the matching fallback.
func buildMatcher() {
	codes := make([]Code, 0, len(catalogsByCode))

	for code := range catalogsByCode {
		if code == BaseLocale {
			continue
		}

		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	supportedCodes = append([]Code{BaseLocale}, codes...)

	tags := make([]language.Tag, 0, len(supportedCodes))

	for _, code := range supportedCodes {
		tag, err := language.Parse(string(code))
		if err != nil {
			Logger.Warn().Err(err).Str("locale", string(code)).Msg("Skipping unparsable locale code")

			continue
		}

		tags = append(tags, tag)
		codesByTag[tag.String()] = code
	}

	matcher = language.NewMatcher(tags)
}
