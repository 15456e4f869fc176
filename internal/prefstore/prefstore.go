// Package prefstore turns a kvstorage backend into the persistence
// collaborator of a settings.Store. Values are stored as decimal text.
package prefstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"settings-lite/internal/kvstorage"
	"settings-lite/internal/kvstorage/filesystem"
	"settings-lite/internal/kvstorage/sqlite"
	"settings-lite/internal/kvstorage/yamlfile"
	"settings-lite/internal/settings"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
)

// Backends lists the supported backend names.
var Backends = []string{BackendYAML, BackendDir, BackendSQLite}

// Store implements settings.Persistence over a kvstorage.KVStore.
type Store struct {
	kv      kvstorage.KVStore
	backend string
	logger  *log.Logger
}

// New wraps kv. logger may be nil.
func New(kv kvstorage.KVStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, logger: logger.WithPrefix("prefstore")}
}

// Open creates the named backend under dir: settings.yaml, settings/ or
// settings.db.
func Open(ctx context.Context, backend, dir string, logger *log.Logger) (*Store, error) {
	var kv kvstorage.KVStore
	switch backend {
	case BackendYAML, "":
		ys, err := yamlfile.New(filepath.Join(dir, "settings.yaml"))
		if err != nil {
			return nil, err
		}
		backend, kv = BackendYAML, ys
	case BackendDir:
		fs := filesystem.New(filepath.Join(dir, "settings"))
		if err := fs.Init(ctx); err != nil {
			return nil, fmt.Errorf("creating settings directory: %w", err)
		}
		kv = fs
	case BackendSQLite:
		db, err := sqlite.Open(ctx, filepath.Join(dir, "settings.db"))
		if err != nil {
			return nil, err
		}
		kv = db
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: %s)", backend, strings.Join(Backends, ", "))
	}

	s := New(kv, logger)
	s.backend = backend
	s.logger.Debug("opened backend", "backend", backend, "dir", dir)
	return s, nil
}

// Backend returns the backend name given to Open, or "" for New.
func (s *Store) Backend() string {
	return s.backend
}

// Read implements settings.Persistence.
func (s *Store) Read(ctx context.Context, key string) (int, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kvstorage.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, fmt.Errorf("key %q holds %q: %w", key, raw, settings.ErrCorruptValue)
	}
	return v, true, nil
}

// Write implements settings.Persistence.
func (s *Store) Write(ctx context.Context, key string, value int) error {
	if err := s.kv.Set(ctx, key, []byte(strconv.Itoa(value))); err != nil {
		return err
	}
	s.logger.Debug("wrote setting", "key", key, "value", value)
	return nil
}

// Keys lists every persisted key, including ones no definition knows about.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.kv.List(ctx)
}

// Reset deletes the persisted entries for keys so the next load falls back to
// defaults. Keys that are not persisted are ignored.
func (s *Store) Reset(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		err := s.kv.Delete(ctx, key)
		if err != nil && !errors.Is(err, kvstorage.ErrKeyNotFound) {
			return fmt.Errorf("resetting %q: %w", key, err)
		}
	}
	return nil
}

// timestamped is implemented by backends that record write times.
type timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// UpdatedAt reports when key was last written. ok is false when the backend
// does not record write times or key is not persisted.
func (s *Store) UpdatedAt(ctx context.Context, key string) (t time.Time, ok bool, err error) {
	ts, supported := s.kv.(timestamped)
	if !supported {
		return time.Time{}, false, nil
	}
	t, err = ts.UpdatedAt(ctx, key)
	if errors.Is(err, kvstorage.ErrKeyNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Close releases the backend if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ settings.Persistence = (*Store)(nil)
