// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides key-value persistence for identities and
// conversation collections.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/chatai-dev/chatai-tui/internal/util"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a key-value store of string keys to string values (JSON
// documents). Writes are whole-value overwrites; there are no partial
// updates and no transactions.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key does not exist.
	Get(key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists each key as one JSON file in a base directory.
// Values are written atomically with fsync so a crash never leaves a
// partially written record.
type FileStore struct {
	// BaseDir is the directory holding one file per key.
	// Default: ~/.chatai/data/
	BaseDir string
}

// NewFileStore creates a file store rooted at the default data directory.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".chatai", "data"))
}

// NewFileStoreWithDir creates a file store rooted at a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Get returns the value stored for key, or ("", false, nil) when absent.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes value under key atomically.
func (s *FileStore) Set(key, value string) error {
	return util.AtomicWriteFile(s.filePath(key), []byte(value), 0600)
}

// Delete removes the file for key. A missing file is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// filePath maps a key to its backing file.
func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.BaseDir, sanitizeKey(key)+".json")
}

// sanitizeKey replaces characters that are unsafe in file names.
// Keys are built from fixed prefixes and generated IDs, so in practice
// this only guards against a hostile identity record.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
