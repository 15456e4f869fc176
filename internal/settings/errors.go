package settings

import "fmt"

// UnknownSettingError is returned for a key that is not registered.
type UnknownSettingError struct {
	Key string
}

func (e *UnknownSettingError) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Key)
}

// KindMismatchError is returned when an operation does not fit the setting's
// shape, e.g. cycling a binary setting.
type KindMismatchError struct {
	Key  string
	Kind Kind
	Op   string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot %s setting %q: it is %s", e.Op, e.Key, e.Kind)
}

// InvalidValueError is returned when SetValue receives a value outside the
// declared domain.
type InvalidValueError struct {
	Key    string
	Value  int
	Domain string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("setting %q: invalid value %d (allowed: %s)", e.Key, e.Value, e.Domain)
}

// PersistenceError wraps a failure from the persistence collaborator. When Op
// is "write" the new value is still recorded and applied; it is pending until
// a later write succeeds.
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s setting %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
