package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Store is the single source of truth for setting values. Every mutation
// records the new value, persists it and applies it to the setting's
// adapters, in that order, while holding the store lock.
type Store struct {
	mu      sync.Mutex
	p       Persistence
	logger  *log.Logger
	order   []string
	defs    map[string]*Definition
	values  map[string]int
	pending map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings and change events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithPrefix("settings")
		}
	}
}

// Open validates defs, builds a Store over p and loads every setting.
//
// Invalid definitions are reported without touching p. If only Load fails the
// store is returned together with the error: every value is still resolved
// and applied, so the caller can keep using it.
func Open(ctx context.Context, p Persistence, defs []Definition, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, errors.New("settings: nil persistence")
	}
	s := &Store{
		p:       p,
		logger:  log.New(io.Discard),
		defs:    make(map[string]*Definition, len(defs)),
		values:  make(map[string]int, len(defs)),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range defs {
		def := defs[i]
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.defs[def.Key]; dup {
			return nil, fmt.Errorf("duplicate setting %q", def.Key)
		}
		s.defs[def.Key] = &def
		s.order = append(s.order, def.Key)
	}

	return s, s.Load(ctx)
}

// Load reads every setting from persistence in declaration order. Missing,
// unreadable or out-of-domain entries resolve to the default, which is
// written back immediately. Every resolved value is applied to its adapters,
// including when persistence fails.
//
// A pending key is written from memory before it is read, so a reload never
// replaces an unsaved value with the stale stored one. If that write fails
// again the in-memory value stays and the key stays pending.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range s.order {
		def := s.defs[key]
		if s.pending[key] {
			if err := s.p.Write(ctx, key, s.values[key]); err != nil {
				s.logger.Warn("pending setting still not saved", "key", key, "err", err)
				errs = append(errs, &PersistenceError{Key: key, Op: "write", Err: err})
				def.apply(s.values[key])
				continue
			}
			delete(s.pending, key)
		}
		v, err := s.resolve(ctx, def)
		if err != nil {
			errs = append(errs, err)
		}
		s.values[key] = v
		def.apply(v)
	}
	s.logger.Debug("settings loaded", "count", len(s.order), "pending", len(s.pending))
	return errors.Join(errs...)
}

func (s *Store) resolve(ctx context.Context, def *Definition) (int, error) {
	v, ok, err := s.p.Read(ctx, def.Key)
	switch {
	case errors.Is(err, ErrCorruptValue):
		s.logger.Warn("discarding unreadable setting", "key", def.Key, "err", err)
	case err != nil:
		s.logger.Error("reading setting", "key", def.Key, "err", err)
		return def.DefaultValue(), &PersistenceError{Key: def.Key, Op: "read", Err: err}
	case ok && def.Legal(v):
		delete(s.pending, def.Key)
		return v, nil
	case ok:
		s.logger.Warn("stored setting out of range", "key", def.Key, "value", v, "allowed", def.Domain())
	}

	d := def.DefaultValue()
	if err := s.p.Write(ctx, def.Key, d); err != nil {
		s.pending[def.Key] = true
		return d, &PersistenceError{Key: def.Key, Op: "write", Err: err}
	}
	delete(s.pending, def.Key)
	return d, nil
}

// ToggleBinary flips a binary setting to its other member and returns it.
func (s *Store) ToggleBinary(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.lookup(key, KindBinary, "toggle")
	if err != nil {
		return 0, err
	}
	next := def.Values[0]
	if s.values[key] == def.Values[0] {
		next = def.Values[1]
	}
	return next, s.commit(ctx, def, next)
}

// CycleEnum advances a cyclic setting to (current+1) mod N and returns it.
func (s *Store) CycleEnum(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.lookup(key, KindCyclic, "cycle")
	if err != nil {
		return 0, err
	}
	next := (s.values[key] + 1) % def.Size
	return next, s.commit(ctx, def, next)
}

// SetValue assigns value directly. It accepts any kind of setting as long as
// value is within the declared domain.
func (s *Store) SetValue(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.lookup(key, 0, "set")
	if err != nil {
		return err
	}
	if !def.Legal(value) {
		return &InvalidValueError{Key: key, Value: value, Domain: def.Domain()}
	}
	return s.commit(ctx, def, value)
}

// GetValue returns the in-memory value without touching persistence or
// adapters.
func (s *Store) GetValue(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.defs[key]; !ok {
		return 0, &UnknownSettingError{Key: key}
	}
	return s.values[key], nil
}

// Pending returns the keys whose current value has not been persisted, in
// declaration order.
func (s *Store) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for _, key := range s.order {
		if s.pending[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// Flush retries the persistence write for every pending key using the value
// already recorded in memory.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range s.order {
		if !s.pending[key] {
			continue
		}
		if err := s.p.Write(ctx, key, s.values[key]); err != nil {
			errs = append(errs, &PersistenceError{Key: key, Op: "write", Err: err})
			continue
		}
		delete(s.pending, key)
	}
	return errors.Join(errs...)
}

// DropPending forgets the unsaved values of keys so the next Load reads them
// from persistence instead of writing them back.
func (s *Store) DropPending(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.pending, key)
	}
}

// Definition returns the definition registered under key.
func (s *Store) Definition(key string) (Definition, bool) {
	def, ok := s.defs[key]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Definitions returns all definitions in declaration order.
func (s *Store) Definitions() []Definition {
	out := make([]Definition, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.defs[key])
	}
	return out
}

// Snapshot returns a copy of every current value.
func (s *Store) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// lookup finds key and checks its kind; want 0 accepts any kind.
func (s *Store) lookup(key string, want Kind, op string) (*Definition, error) {
	def, ok := s.defs[key]
	if !ok {
		return nil, &UnknownSettingError{Key: key}
	}
	if want != 0 && def.Kind != want {
		return nil, &KindMismatchError{Key: key, Kind: def.Kind, Op: op}
	}
	return def, nil
}

func (s *Store) commit(ctx context.Context, def *Definition, v int) error {
	s.values[def.Key] = v

	werr := s.p.Write(ctx, def.Key, v)
	if werr != nil {
		s.pending[def.Key] = true
		s.logger.Error("persisting setting", "key", def.Key, "value", v, "err", werr)
	} else {
		delete(s.pending, def.Key)
	}

	def.apply(v)
	s.logger.Debug("setting changed", "key", def.Key, "value", v)

	if werr != nil {
		return &PersistenceError{Key: def.Key, Op: "write", Err: werr}
	}
	return nil
}
