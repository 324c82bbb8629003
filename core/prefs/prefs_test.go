// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	store := NewFileStore(path)

	_, ok := store.Get("language")
	assert.False(t, ok)

	require.NoError(t, store.Set("language", "he"))

	value, ok := store.Get("language")
	require.True(t, ok)
	assert.Equal(t, "he", value)

	// A fresh store over the same file sees the persisted value.
	reopened := NewFileStore(path)

	value, ok = reopened.Get("language")
	require.True(t, ok)
	assert.Equal(t, "he", value)
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	store := NewFileStore(path)
	require.NoError(t, store.Set("language", "ru"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)

	_, ok := store.Get("language")
	assert.False(t, ok)

	// The store still works and repairs the file on the next write.
	require.NoError(t, store.Set("language", "ar"))

	reopened := NewFileStore(path)
	value, ok := reopened.Get("language")
	require.True(t, ok)
	assert.Equal(t, "ar", value)
}

func TestFileStoreKeepsValueOnWriteFailure(t *testing.T) {
	t.Parallel()

	// The parent "directory" is a regular file, so the write cannot succeed.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	store := NewFileStore(filepath.Join(blocker, "state.json"))

	err := store.Set("language", "he")
	require.Error(t, err)

	// The in-memory value survives for the process lifetime.
	value, ok := store.Get("language")
	require.True(t, ok)
	assert.Equal(t, "he", value)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, ok := store.Get("language")
	assert.False(t, ok)

	require.NoError(t, store.Set("language", "en"))

	value, ok := store.Get("language")
	require.True(t, ok)
	assert.Equal(t, "en", value)
}
