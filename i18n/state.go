// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"sync"

	"github.com/evanmaskanazi/datinglanguage/core/prefs"
)

// PreferenceKey is the fixed key under which the locale preference is stored.
const PreferenceKey = "language"

// Change is the payload broadcast to subscribers on every locale change.
type Change struct {
	Language Code `json:"language"`
}

// State holds the active locale and its durable preference.
//
// A State is explicitly constructed and injectable; nothing in this package
// holds one ambiently, so tests can instantiate as many as they need without
// cross-test leakage. All methods are safe for concurrent use.
type State struct {
	mu      sync.Mutex
	active  Code
	store   prefs.Store
	subs    map[int]func(Change)
	nextSub int
}

// NewState creates a State backed by store. The state starts at BaseLocale;
// call Initialize to restore a persisted preference.
func NewState(store prefs.Store) *State {
	return &State{
		active: BaseLocale,
		store:  store,
		subs:   make(map[int]func(Change)),
	}
}

// Initialize restores the persisted locale preference.
//
// An absent or unsupported persisted value leaves the state at BaseLocale.
// Initialize is idempotent: calling it again only re-reads the store.
func (s *State) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = BaseLocale

	value, ok := s.store.Get(PreferenceKey)
	if !ok {
		return
	}

	if code := Code(value); IsSupported(code) {
		s.active = code

		return
	}

	Logger.Warn().
		Str("value", value).
		Msg("Ignoring unsupported persisted locale")
}

// Active returns the currently active locale.
func (s *State) Active() Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

// SetLocale activates a supported locale, persists the preference, and
// notifies subscribers.
//
// An unsupported code returns ErrUnsupportedLocale and changes nothing.
// Persistence failures are logged and the state keeps working in memory for
// the rest of the process lifetime; they are not surfaced to the caller.
// Subscribers run synchronously, after the new value is active and persisted.
func (s *State) SetLocale(code Code) error {
	if !IsSupported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}

	s.mu.Lock()
	s.active = code

	if err := s.store.Set(PreferenceKey, string(code)); err != nil {
		Logger.Warn().
			Err(err).
			Str("locale", string(code)).
			Msg("Failed to persist locale preference; continuing in memory")
	}

	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	change := Change{Language: code}
	for _, fn := range subs {
		fn(change)
	}

	return nil
}

// Subscribe registers fn to be called on every successful locale change and
// returns a cancel function that removes the subscription.
func (s *State) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}
