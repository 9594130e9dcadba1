// Package cache implements the keyed on-disk store used to persist project snapshots.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/zerr"
)

// lockFileName is the cross-process lock guarding the store directory.
const lockFileName = ".lock"

var _ ports.CacheStore = (*Store)(nil)

// Store keeps one file per key below a directory. Writes replace files atomically and
// are serialized across processes with a file lock.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Has reports whether an entry exists for key.
func (s *Store) Has(key string) bool {
	path, err := s.path(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the content stored under key.
func (s *Store) Read(key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock(false)
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := os.ReadFile(path) //nolint:gosec // Path is confined to the store directory
	if err != nil {
		return "", ioError(err, "failed to read cache entry", key)
	}
	return string(data), nil
}

// Write atomically replaces the content stored under key.
func (s *Store) Write(key, content string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ioError(err, "failed to create cache directory", key)
	}

	unlock, err := s.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := writeFileAtomic(path, []byte(content), 0o644); err != nil {
		return ioError(err, "failed to write cache entry", key)
	}
	return nil
}

// Delete removes the entry stored under key. Deleting a missing entry is not an error.
func (s *Store) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ioError(err, "failed to delete cache entry", key)
	}
	return nil
}

// path maps key to a file below the store directory, rejecting keys that escape it.
func (s *Store) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || clean == "." || clean == lockFileName || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrCacheIO, "invalid cache key"), "key", key)
	}
	return filepath.Join(s.dir, clean), nil
}

// lock takes the directory lock. A missing directory needs no lock for reading.
func (s *Store) lock(exclusive bool) (func(), error) {
	if !exclusive {
		if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
			return func() {}, nil
		}
	}

	fl := flock.New(filepath.Join(s.dir, lockFileName))
	var err error
	if exclusive {
		err = fl.Lock()
	} else {
		err = fl.RLock()
	}
	if err != nil {
		_ = fl.Close()
		return nil, ioError(err, "failed to lock cache directory", lockFileName)
	}
	return func() {
		_ = fl.Unlock()
		_ = fl.Close()
	}, nil
}

func ioError(err error, msg, key string) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrCacheIO, err), msg), "key", key)
}
