// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

// localecheck compares every locale catalog against the English reference
// and reports missing or surplus translation keys.
//
// Run from the repository root: go run ./cmd/localecheck
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/evanmaskanazi/datinglanguage/core/audit"
)

const (
	localeDir     = "assets/locales"
	referenceFile = "en.yaml"
)

func main() {
	audit.SetDefaultLogger()

	reference, err := loadKeys(filepath.Join(localeDir, referenceFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load reference catalog")
	}

	entries, err := os.ReadDir(localeDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", localeDir).Msg("Failed to read locale directory")
	}

	clean := true

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == referenceFile || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		keys, err := loadKeys(filepath.Join(localeDir, name))
		if err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("Failed to load catalog")
		}

		missing := difference(reference, keys)
		surplus := difference(keys, reference)

		for _, key := range missing {
			log.Warn().Str("catalog", name).Str("key", key).Msg("Missing translation")
		}

		for _, key := range surplus {
			log.Warn().Str("catalog", name).Str("key", key).Msg("Key absent from reference catalog")
		}

		if len(missing) > 0 || len(surplus) > 0 {
			clean = false
		} else {
			log.Info().Str("catalog", name).Int("keys", len(keys)).Msg("Catalog complete")
		}
	}

	if !clean {
		os.Exit(1)
	}
}

// loadKeys parses a catalog file and returns the set of flattened
// dotted keys that resolve to string values.
func loadKeys(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path) // #nosec:G304 - paths come from ReadDir above
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flatten("", tree, keys)

	return keys, nil
}

func flatten(prefix string, node map[string]any, out map[string]struct{}) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		if child, ok := value.(map[string]any); ok {
			flatten(full, child, out)
			continue
		}

		out[full] = struct{}{}
	}
}

// difference returns the keys of a that are absent from b, sorted.
func difference(a, b map[string]struct{}) []string {
	var out []string

	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}

	sort.Strings(out)

	return out
}
