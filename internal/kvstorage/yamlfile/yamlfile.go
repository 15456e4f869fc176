// Package yamlfile implements kvstorage.KVStore backed by a single flat YAML
// file, the default settings backend.
//
// The file holds one "key: value" pair per setting. yaml.Marshal on
// map[string]string produces alphabetical key ordering, making the output
// deterministic and diff-friendly. Hand-edited unquoted numbers are read back
// as their decimal text.
package yamlfile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"settings-lite/internal/kvstorage"

	"gopkg.in/yaml.v3"
)

// Store implements kvstorage.KVStore using a YAML file on disk.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// New creates a Store that reads from and writes to path.
// If the file exists it is parsed; if it does not exist the store
// starts empty and the file is created on the first Set call.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value for key, re-reading the file so that writes from
// other processes are visible.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := kvstorage.ValidateKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
	}
	return []byte(v), nil
}

// Set writes key=value and persists to disk.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	return s.withLock(func() error {
		s.data[key] = string(value)
		return nil
	})
}

// Delete removes key and persists to disk.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	return s.withLock(func() error {
		if _, ok := s.data[key]; !ok {
			return fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
		}
		delete(s.data, key)
		return nil
	})
}

// List returns all keys in the file, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// lockPath returns the path to the lock file used for flock-based coordination.
func (s *Store) lockPath() string {
	return s.path + ".lock"
}

// withLock acquires an exclusive file lock, re-reads the file from disk
// (picking up writes from other processes), calls fn to mutate s.data,
// then atomically writes s.data back to disk. Nothing is written if fn fails.
func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("opening settings lock: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquiring settings lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	if err := s.readFromDisk(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		return err
	}

	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return atomicWrite(s.path, raw)
}

// readFromDisk reloads s.data from the file on disk.
func (s *Store) readFromDisk() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]string)
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}

	fresh := make(map[string]string)
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fresh); err != nil {
			return fmt.Errorf("parsing settings file: %w", err)
		}
	}
	if fresh == nil {
		fresh = make(map[string]string)
	}
	s.data = fresh
	return nil
}

// atomicWrite writes data to a file atomically via a temporary file and rename.
func atomicWrite(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := path + ".tmp." + hex.EncodeToString(randBytes)

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}

// Compile-time check that Store implements kvstorage.KVStore.
var _ kvstorage.KVStore = (*Store)(nil)
