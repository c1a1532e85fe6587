// Package storage provides file-based JSON persistence for design documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrBadName rejects document names that would escape the base directory.
	ErrBadName = errors.New("invalid document name")
)

// Store persists named documents as JSON files under a base directory, with
// flock-based locking so concurrent CLI invocations don't corrupt a document.
type Store struct {
	basePath string
	mu       sync.Mutex
	locks    map[string]*docLock
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	return &Store{
		basePath: basePath,
		locks:    make(map[string]*docLock),
	}
}

// docPath resolves a document name to its file path.
func (s *Store) docPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return "", ErrBadName
	}
	return filepath.Join(s.basePath, name+".json"), nil
}

// Load reads the named document into v.
func (s *Store) Load(ctx context.Context, name string, v any) error {
	path, err := s.docPath(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read document: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

// Save writes v as the named document. The write is atomic: marshal, write to
// a temp file, rename into place, all under the document's lock.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	path, err := s.docPath(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := s.getLock(path)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Release()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename document: %w", err)
	}
	return nil
}

// Delete removes the named document. Deleting an absent document is not an
// error.
func (s *Store) Delete(ctx context.Context, name string) error {
	path, err := s.docPath(name)
	if err != nil {
		return err
	}

	lock := s.getLock(path)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Release()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// List returns the names of all stored documents.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	return names, nil
}

// Exists reports whether the named document is present.
func (s *Store) Exists(ctx context.Context, name string) bool {
	path, err := s.docPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// getLock returns the lock guarding a document file.
func (s *Store) getLock(path string) *docLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = newDocLock(path)
		s.locks[path] = lock
	}
	return lock
}
