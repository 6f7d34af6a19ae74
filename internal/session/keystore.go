// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/solace-tui/internal/util"
)

// KeyStore holds the vault master key. The file implementation is the
// only one shipped; permissions are tightened per platform in the
// restrictPermissions build variants.
type KeyStore interface {
	// Store saves the master key.
	Store(key []byte) error
	// Retrieve loads the master key.
	Retrieve() ([]byte, error)
	// Delete removes the stored key.
	Delete() error
	// Exists reports whether a key is stored.
	Exists() bool
}

// FileKeyStore stores the master key in a mode-0600 file.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a key store at the given path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Store saves the key with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents a torn key file.
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return restrictPermissions(f.path)
}

// Retrieve loads the key from disk.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return key, nil
}

// Delete removes the key file.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Exists reports whether the key file is present.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
