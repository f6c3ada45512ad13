package keyring

import (
	"errors"
	"testing"
)

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	if err := store.IsAvailable(); err != nil {
		t.Fatalf("IsAvailable() failed: %v", err)
	}

	if err := store.Set("work", "secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	secret, err := store.Get("work")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if secret != "secret" {
		t.Errorf("expected 'secret', got %q", secret)
	}

	if store.Count() != 1 {
		t.Errorf("expected 1 stored secret, got %d", store.Count())
	}

	if err := store.Delete("work"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := store.Get("work"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound after delete, got %v", err)
	}
}

func TestMockStoreFailing(t *testing.T) {
	store := NewMockStore()
	store.SetFailing(true)

	if err := store.IsAvailable(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if err := store.Set("work", "secret"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if _, err := store.Get("work"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
}

func TestServiceName(t *testing.T) {
	if got := serviceName("work"); got != "airswitch - work" {
		t.Errorf("expected 'airswitch - work', got %q", got)
	}
}

func TestDefaultStoreUsesFileStoreInTests(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(TestKeyringEnvVar, tmpDir)

	store := DefaultStore()
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected a FileStore when %s is set, got %T", TestKeyringEnvVar, store)
	}
}
