// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package prefs provides durable key-value preference storage.

The only production implementation is FileStore, a single JSON document on
disk. Every failure mode degrades: an unreadable or corrupt file yields an
empty store, and a failed write leaves the in-memory value intact, so a
broken disk never takes the hosting application down with it.
*/
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const stateFilePermissions = 0o600

// Store is a durable key-value store for user preferences.
type Store interface {
	// Get returns the stored value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key. An error means the value may not survive
	// a restart; the caller decides whether that matters.
	Set(key, value string) error
}

// FileStore persists preferences as one JSON object in a file.
// Construct with NewFileStore; the zero value is not ready for use.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore opens (or initializes) the preference file at path.
//
// A missing file is normal and starts empty. A file that cannot be read or
// parsed is logged and treated as empty rather than failing construction.
func NewFileStore(path string) *FileStore {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if errors.Is(err, os.ErrNotExist) {
		return s
	}

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Could not read preference file, starting empty")

		return s
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Corrupt preference file, starting empty")

		s.values = make(map[string]string)
	}

	return s
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]

	return value, ok
}

// Set updates key in memory and rewrites the preference file.
//
// The in-memory value is updated even when the write fails, so the process
// keeps a consistent view for its own lifetime.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create preference directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, stateFilePermissions); err != nil {
		return fmt.Errorf("failed to write preference file: %w", err)
	}

	return nil
}

// MemoryStore is an in-memory Store for tests and for running with durable
// storage unavailable.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value for key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]

	return value, ok
}

// Set stores value under key. It never fails.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}
