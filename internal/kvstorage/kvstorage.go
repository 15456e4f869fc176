// Package kvstorage defines the flat key-value contract shared by the
// settings persistence backends. Keys are short identifiers such as
// "FrameLimitSetting"; values are opaque bytes.
package kvstorage

import (
	"context"
	"fmt"
	"strings"
)

// KVStore defines the interface for generic key-value persistence.
type KVStore interface {
	// Get retrieves the value for the given key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value for the given key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key and its value.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// List returns all keys in ascending order.
	List(ctx context.Context) ([]string, error)
}

// ValidateKey checks that a key is non-empty, has no surrounding whitespace
// and doesn't contain path separators.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty: %w", ErrInvalidKey)
	}
	if strings.TrimSpace(key) != key {
		return fmt.Errorf("key %q has surrounding whitespace: %w", key, ErrInvalidKey)
	}
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("key %q contains path separator: %w", key, ErrInvalidKey)
	}
	return nil
}
