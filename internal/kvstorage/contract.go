package kvstorage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// RunContractTests runs the full contract test suite against a KVStore implementation.
// Each storage backend should call this with its own factory function to ensure
// consistent behavior across all implementations.
func RunContractTests(t *testing.T, factory func(t *testing.T) KVStore) {
	t.Run("SetGet", func(t *testing.T) { testSetGet(t, factory(t)) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, factory(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory(t)) })
	t.Run("List", func(t *testing.T) { testList(t, factory(t)) })
	t.Run("InvalidKeys", func(t *testing.T) { testInvalidKeys(t, factory(t)) })
}

func testSetGet(t *testing.T, s KVStore) {
	ctx := context.Background()
	if err := s.Set(ctx, "FrameLimitSetting", []byte("60")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "FrameLimitSetting")
	if err != nil {
		t.Fatalf("Get after Set failed: %v", err)
	}
	if string(got) != "60" {
		t.Errorf("Get = %q, want %q", got, "60")
	}
}

func testOverwrite(t *testing.T, s KVStore) {
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set v1 failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set v2 failed: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get = %q, want %q", got, "v2")
	}
}

func testGetMissing(t *testing.T, s KVStore) {
	_, err := s.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get(nonexistent) error = %v, want ErrKeyNotFound", err)
	}
}

func testDelete(t *testing.T, s KVStore) {
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrKeyNotFound", err)
	}
	if err := s.Delete(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("second Delete error = %v, want ErrKeyNotFound", err)
	}
}

func testList(t *testing.T, s KVStore) {
	ctx := context.Background()
	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List on empty store failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List on empty store = %v, want empty", keys)
	}

	for _, k := range []string{"ToggleSfxSetting", "FrameLimitSetting", "LanguageSetting"} {
		if err := s.Set(ctx, k, []byte("1")); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}
	keys, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"FrameLimitSetting", "LanguageSetting", "ToggleSfxSetting"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List = %v, want %v", keys, want)
	}
}

func testInvalidKeys(t *testing.T, s KVStore) {
	ctx := context.Background()
	for _, key := range []string{"", "a/b"} {
		if err := s.Set(ctx, key, []byte("1")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
