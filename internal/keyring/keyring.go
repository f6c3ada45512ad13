// Package keyring stores the last injected work secret in the OS keyring so
// that a cache miss can fall back to the most recent known password before
// prompting the operator.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/airswitch/airswitch/internal/utils"
)

const (
	// ServicePrefix is the prefix used for keyring service names.
	// Each profile has its own service entry: "airswitch - <profile_name>"
	ServicePrefix = "airswitch"

	// TestKeyringEnvVar is the environment variable that, when set to a
	// directory path, causes airswitch to use a file-based keyring instead of
	// the OS keyring. This is intended for testing purposes only.
	TestKeyringEnvVar = "AIRSWITCH_TEST_KEYRING_DIR"
)

// serviceName returns the keyring service name for a profile.
func serviceName(profile string) string {
	return ServicePrefix + " - " + profile
}

var (
	// ErrKeyringUnavailable is returned when no secure keyring is available.
	ErrKeyringUnavailable = errors.New("secure keyring is not available on this system")
	// ErrSecretNotFound is returned when a secret is not found in the keyring.
	ErrSecretNotFound = errors.New("secret not found in keyring")
	// ErrKeyringAccessDenied is returned when access to the keyring is denied.
	ErrKeyringAccessDenied = errors.New("access to keyring denied")
)

// Store represents a secure secret storage backend.
type Store interface {
	// Set stores a secret for the given key.
	Set(key, secret string) error
	// Get retrieves a secret for the given key.
	Get(key string) (string, error)
	// Delete removes a secret for the given key.
	Delete(key string) error
	// IsAvailable checks if the keyring is available.
	IsAvailable() error
}

// DefaultStore returns the default keyring store for the current platform.
// If AIRSWITCH_TEST_KEYRING_DIR is set, a file-based store is used instead.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		fileStore, err := NewFileStore(testDir)
		if err != nil {
			// If we can't create the file store, fall back to the OS keyring
			return &osKeyring{}
		}
		return fileStore
	}
	return &osKeyring{}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct{}

// IsAvailable checks if a secure keyring is available on this system.
func (k *osKeyring) IsAvailable() error {
	// Test keyring availability by attempting a get operation
	_, err := gokeyring.Get(serviceName("__availability_check__"), "test")
	if err != nil {
		// ErrNotFound means keyring is working but key doesn't exist (expected)
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}

		errStr := err.Error()

		// Linux: D-Bus secret service not available
		if runtime.GOOS == "linux" {
			if utils.ContainsAny(errStr, "secret service", "dbus", "org.freedesktop.secrets") {
				return fmt.Errorf("%w: D-Bus secret service not available - please install and start gnome-keyring, kwallet, or another secret service provider", ErrKeyringUnavailable)
			}
		}

		// macOS: Keychain issues
		if runtime.GOOS == "darwin" {
			if utils.ContainsAny(errStr, "keychain", "security") {
				return fmt.Errorf("%w: macOS Keychain not accessible", ErrKeyringUnavailable)
			}
		}

		// Other errors during availability check - treat as available
		// since the actual operations will provide better error messages
		return nil
	}

	return nil
}

// Set stores a secret in the keyring. The key is the profile name.
func (k *osKeyring) Set(key, secret string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}

	if key == "" {
		return errors.New("key cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	err := gokeyring.Set(serviceName(key), key, secret)
	if err != nil {
		return wrapKeyringError(err, "failed to store secret")
	}

	return nil
}

// Get retrieves a secret from the keyring. The key is the profile name.
func (k *osKeyring) Get(key string) (string, error) {
	if err := k.IsAvailable(); err != nil {
		return "", err
	}

	if key == "" {
		return "", errors.New("key cannot be empty")
	}

	secret, err := gokeyring.Get(serviceName(key), key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve secret")
	}

	return secret, nil
}

// Delete removes a secret from the keyring. The key is the profile name.
func (k *osKeyring) Delete(key string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}

	if key == "" {
		return errors.New("key cannot be empty")
	}

	err := gokeyring.Delete(serviceName(key), key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			// Already deleted, not an error
			return nil
		}
		return wrapKeyringError(err, "failed to delete secret")
	}

	return nil
}

// wrapKeyringError wraps a keyring error with context.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if utils.ContainsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringAccessDenied, context, err)
	}

	if utils.ContainsAny(errStr, "not found", "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, context, err)
	}

	return fmt.Errorf("%s: %w", context, err)
}
