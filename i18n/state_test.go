// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanmaskanazi/datinglanguage/core/prefs"
)

func TestStateInitialize(t *testing.T) {
	installTestCatalogs(t)

	t.Run("EmptyStoreStartsAtBase", func(t *testing.T) {
		state := NewState(prefs.NewMemoryStore())
		state.Initialize()

		assert.Equal(t, BaseLocale, state.Active())
	})

	t.Run("RestoresPersistedPreference", func(t *testing.T) {
		store := prefs.NewMemoryStore()
		require.NoError(t, store.Set(PreferenceKey, "he"))

		state := NewState(store)
		state.Initialize()

		assert.Equal(t, Code("he"), state.Active())
	})

	t.Run("IgnoresUnsupportedPersistedValue", func(t *testing.T) {
		store := prefs.NewMemoryStore()
		require.NoError(t, store.Set(PreferenceKey, "tlh"))

		state := NewState(store)
		state.Initialize()

		assert.Equal(t, BaseLocale, state.Active())
	})
}

func TestStateSetLocale(t *testing.T) {
	installTestCatalogs(t)

	t.Run("ActivatesAndPersists", func(t *testing.T) {
		store := prefs.NewMemoryStore()
		state := NewState(store)
		state.Initialize()

		require.NoError(t, state.SetLocale("ru"))
		assert.Equal(t, Code("ru"), state.Active())

		persisted, ok := store.Get(PreferenceKey)
		require.True(t, ok)
		assert.Equal(t, "ru", persisted)
	})

	t.Run("RejectsUnsupportedLocale", func(t *testing.T) {
		state := NewState(prefs.NewMemoryStore())
		state.Initialize()

		err := state.SetLocale("fr")
		require.ErrorIs(t, err, ErrUnsupportedLocale)
		assert.Equal(t, BaseLocale, state.Active())
	})

	t.Run("SurvivesAcrossInitialize", func(t *testing.T) {
		store := prefs.NewMemoryStore()

		first := NewState(store)
		first.Initialize()
		require.NoError(t, first.SetLocale("he"))

		// A fresh state over the same store restores the preference.
		second := NewState(store)
		second.Initialize()
		assert.Equal(t, Code("he"), second.Active())
	})
}

func TestStateSubscribe(t *testing.T) {
	installTestCatalogs(t)

	state := NewState(prefs.NewMemoryStore())
	state.Initialize()

	var received []Change

	cancel := state.Subscribe(func(c Change) {
		received = append(received, c)
	})

	require.NoError(t, state.SetLocale("he"))
	require.Len(t, received, 1)
	assert.Equal(t, Code("he"), received[0].Language)

	// Failed changes do not notify.
	require.Error(t, state.SetLocale("fr"))
	assert.Len(t, received, 1)

	// Cancelled subscriptions stop receiving.
	cancel()
	require.NoError(t, state.SetLocale("ru"))
	assert.Len(t, received, 1)
}
