// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package credstore implements the persistent credential store.

It holds exactly one bearer token under a single fixed location, the client's
analog of a browser's origin-scoped key-value storage. No validation happens
here: the store is purely a persistence boundary, and every other component
reads the credential through it rather than caching its own copy.
*/
package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// tokenFileName is the single fixed key the bearer token lives under.
const tokenFileName = "access_token"

// Store is the contract every credential store implements.
//
// Absence of a token means the client is unauthenticated.
type Store interface {
	// Token returns the stored bearer token, or false when absent.
	Token() (string, bool)

	// Save persists the bearer token, replacing any previous one.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// # File-Backed Store

// FileStore persists the token as a single file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional token location under the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credstore: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "parsight", tokenFileName), nil
}

// Token reads the stored bearer token from disk.
func (s *FileStore) Token() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

/*
Save writes the token to the store file.

The parent directory is created on demand. The file is written with mode
0600 since it holds a live credential.

Parameters:
  - token: string

Returns:
  - error: Filesystem failures
*/
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credstore: create directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("credstore: write token: %w", err)
	}
	return nil
}

/*
Clear removes the token file.

Returns:
  - error: Filesystem failures other than the file already being absent
*/
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credstore: remove token: %w", err)
	}
	return nil
}

// # In-Memory Store

// MemStore is a process-local [Store] used by tests and the demo sandbox.
type MemStore struct {
	mu    sync.Mutex
	token string
	held  bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Token returns the held bearer token, or false when absent.
func (s *MemStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.held
}

// Save replaces the held token.
func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.held = true
	return nil
}

// Clear drops the held token.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.held = false
	return nil
}
