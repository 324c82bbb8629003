// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/evanmaskanazi/datinglanguage/config"
)

var (
	// Logger is the logger used by package i18n.
	Logger zerolog.Logger

	// missingKeyOnce deduplicates WARN logs for missing keys in strict mode.
	// The key is locale+"\x00"+key.
	missingKeyOnce sync.Map
)

func strictMissingKeys() bool {
	return config.Global.Localization.StrictMissingKeys
}

// logMissingOnce logs a missing translation warning once per (locale, key)
// pair when strict mode is enabled.
func logMissingOnce(code Code, key string) {
	if !strictMissingKeys() {
		return
	}

	id := string(code) + "\x00" + key
	if _, loaded := missingKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		Logger.Warn().
			Str("locale", string(code)).
			Str("key", key).
			Msg("Missing translation")
	}
}
