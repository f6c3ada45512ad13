package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/airswitch/airswitch/internal/config"
)

// keyMarker prefixes the secret line in a stored profile definition.
const keyMarker = "Key="

// ErrWriteFailed is returned when a credential rewrite does not complete.
// The prior secret is presumed still in effect.
var ErrWriteFailed = errors.New("failed to rewrite profile credential")

// Injector rewrites the stored secret of a profile definition in place.
type Injector struct {
	cfg *config.Config
}

// NewInjector creates an Injector backed by the given configuration.
func NewInjector(cfg *config.Config) *Injector {
	return &Injector{cfg: cfg}
}

// SetSecret replaces the value after the Key= marker in the profile's stored
// definition, leaving every other line untouched. The rewrite happens under
// an exclusive file lock that is released on every exit path; a rewrite that
// fails mid-way reports ErrWriteFailed and leaves the caller to assume the
// prior secret still applies.
func (inj *Injector) SetSecret(name, secret string) error {
	path := filepath.Join(inj.cfg.ProfileDir, name)

	// #nosec G304 - path is the profile store directory plus a validated profile name
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("%w: cannot lock %s: %v", ErrWriteFailed, path, err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN) //nolint:errcheck // release is best effort on the way out

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	rewritten, err := replaceKeyLine(string(data), secret)
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if _, err := f.WriteAt([]byte(rewritten), 0); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// replaceKeyLine swaps the value on the marker line, preserving the rest of
// the file byte for byte. A definition without a marker line cannot be
// rewritten safely, so that is an error rather than an append.
func replaceKeyLine(content, secret string) (string, error) {
	lines := strings.Split(content, "\n")
	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, keyMarker) {
			lines[i] = keyMarker + secret
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no %q line in profile definition", ErrWriteFailed, keyMarker)
	}
	return strings.Join(lines, "\n"), nil
}
