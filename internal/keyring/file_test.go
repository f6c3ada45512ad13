package keyring

import (
	"errors"
	"testing"
)

func TestFileStoreRoundtrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	if err := store.IsAvailable(); err != nil {
		t.Fatalf("IsAvailable() failed: %v", err)
	}

	if err := store.Set("work", "hunter2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	secret, err := store.Get("work")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if secret != "hunter2" {
		t.Errorf("expected 'hunter2', got %q", secret)
	}

	// Overwrite
	if err := store.Set("work", "hunter3"); err != nil {
		t.Fatalf("overwriting Set() failed: %v", err)
	}
	secret, err = store.Get("work")
	if err != nil {
		t.Fatalf("Get() after overwrite failed: %v", err)
	}
	if secret != "hunter3" {
		t.Errorf("expected 'hunter3', got %q", secret)
	}

	if err := store.Delete("work"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get("work"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound after delete, got %v", err)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	if _, err := store.Get("nosuch"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := store.Delete("nosuch"); err != nil {
		t.Errorf("Delete() of missing key failed: %v", err)
	}
}

func TestFileStoreTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	// Keys with traversal patterns are stored under hashed names, never
	// outside the store directory.
	if err := store.Set("../../etc/passwd", "oops"); err != nil {
		t.Fatalf("Set() with traversal key failed: %v", err)
	}
	secret, err := store.Get("../../etc/passwd")
	if err != nil {
		t.Fatalf("Get() with traversal key failed: %v", err)
	}
	if secret != "oops" {
		t.Errorf("expected 'oops', got %q", secret)
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected an error for an empty directory path")
	}
}
