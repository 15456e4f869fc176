// Package settings implements the settings reconciliation engine: a fixed set
// of named integer settings, each with a default, a mutation rule and the
// subsystem adapters that receive every value the store records.
package settings

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the shape of a setting's legal value domain.
type Kind int

const (
	// KindBinary settings have exactly two legal values and are toggled.
	KindBinary Kind = iota + 1
	// KindCyclic settings take values 0..N-1 and cycle with wraparound.
	KindCyclic
	// KindCatalog settings index into an external catalog and are only set directly.
	KindCatalog
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindCyclic:
		return "cyclic"
	case KindCatalog:
		return "catalog"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// On and Off are the values of boolean binary settings.
const (
	On  = 1
	Off = 0
)

// ErrCorruptValue is wrapped by Persistence implementations when a stored
// entry exists but cannot be decoded. Load treats it like a missing entry.
var ErrCorruptValue = errors.New("corrupt setting value")

// Persistence is the durable key-value collaborator behind a Store.
type Persistence interface {
	// Read returns the stored value for key. ok is false when no entry exists;
	// that is not an error.
	Read(ctx context.Context, key string) (value int, ok bool, err error)

	// Write stores value under key.
	Write(ctx context.Context, key string, value int) error
}

// Adapter applies a setting value to a subsystem.
type Adapter interface {
	Apply(value int)
}

// AdapterFunc adapts a plain function to Adapter.
type AdapterFunc func(value int)

// Apply calls f(value).
func (f AdapterFunc) Apply(value int) { f(value) }

// Switch adapts a boolean subsystem entry point: value On maps to true.
func Switch(fn func(on bool)) Adapter {
	return AdapterFunc(func(value int) { fn(value == On) })
}

// Catalog is an externally defined list of choices addressed by index.
type Catalog interface {
	// Size returns the number of entries; legal indexes are 0..Size()-1.
	Size() int
	// Default returns the index used when nothing is persisted yet.
	Default() int
}

// Definition declares one setting.
type Definition struct {
	Key  string
	Kind Kind

	// Values holds the two members of a binary setting.
	Values [2]int
	// Size is N for a cyclic setting.
	Size int
	// Catalog backs a catalog setting and supplies its default.
	Catalog Catalog

	// Default is the value used when nothing is persisted. Catalog settings
	// take their default from Catalog instead.
	Default int

	Adapters []Adapter
}

// BinarySetting declares a setting toggled between a and b.
func BinarySetting(key string, a, b, def int, adapters ...Adapter) Definition {
	return Definition{Key: key, Kind: KindBinary, Values: [2]int{a, b}, Default: def, Adapters: compact(adapters)}
}

// CyclicSetting declares a setting cycling through 0..n-1.
func CyclicSetting(key string, n, def int, adapters ...Adapter) Definition {
	return Definition{Key: key, Kind: KindCyclic, Size: n, Default: def, Adapters: compact(adapters)}
}

// CatalogSetting declares a setting selecting an entry of cat.
func CatalogSetting(key string, cat Catalog, adapters ...Adapter) Definition {
	return Definition{Key: key, Kind: KindCatalog, Catalog: cat, Adapters: compact(adapters)}
}

// Legal reports whether v belongs to the setting's domain.
func (d *Definition) Legal(v int) bool {
	switch d.Kind {
	case KindBinary:
		return v == d.Values[0] || v == d.Values[1]
	case KindCyclic:
		return v >= 0 && v < d.Size
	case KindCatalog:
		return d.Catalog != nil && v >= 0 && v < d.Catalog.Size()
	}
	return false
}

// Domain describes the legal values, e.g. "{60, 30}" or "0..2".
func (d *Definition) Domain() string {
	switch d.Kind {
	case KindBinary:
		return fmt.Sprintf("{%d, %d}", d.Values[0], d.Values[1])
	case KindCyclic:
		return fmt.Sprintf("0..%d", d.Size-1)
	case KindCatalog:
		if d.Catalog == nil {
			return "{}"
		}
		return fmt.Sprintf("0..%d", d.Catalog.Size()-1)
	}
	return "{}"
}

// DefaultValue returns the value a fresh install converges to.
func (d *Definition) DefaultValue() int {
	if d.Kind != KindCatalog {
		return d.Default
	}
	if d.Catalog == nil {
		return 0
	}
	if v := d.Catalog.Default(); d.Legal(v) {
		return v
	}
	return 0
}

func (d *Definition) validate() error {
	if d.Key == "" {
		return errors.New("setting key cannot be empty")
	}
	switch d.Kind {
	case KindBinary:
		if d.Values[0] == d.Values[1] {
			return fmt.Errorf("setting %q: binary values must differ", d.Key)
		}
	case KindCyclic:
		if d.Size < 2 {
			return fmt.Errorf("setting %q: cyclic size must be at least 2, got %d", d.Key, d.Size)
		}
	case KindCatalog:
		if d.Catalog == nil {
			return fmt.Errorf("setting %q: catalog setting needs a catalog", d.Key)
		}
		if d.Catalog.Size() < 1 {
			return fmt.Errorf("setting %q: catalog is empty", d.Key)
		}
		return nil
	default:
		return fmt.Errorf("setting %q: unknown kind %v", d.Key, d.Kind)
	}
	if !d.Legal(d.Default) {
		return fmt.Errorf("setting %q: default %d outside %s", d.Key, d.Default, d.Domain())
	}
	return nil
}

func (d *Definition) apply(v int) {
	for _, a := range d.Adapters {
		a.Apply(v)
	}
}

func compact(adapters []Adapter) []Adapter {
	out := adapters[:0:0]
	for _, a := range adapters {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
