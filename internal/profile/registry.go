// Package profile resolves profile names against the external profile store
// and rewrites stored key material.
package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/utils"
)

// ErrProfileUnknown is returned when a name is not in the known profile set.
var ErrProfileUnknown = errors.New("unknown profile")

// Registry resolves requested profile names against the known set. The known
// set is the configured work profile plus the configured other-profile list;
// the store directory is only consulted when the list is rebuilt.
type Registry struct {
	cfg *config.Config
}

// NewRegistry creates a Registry backed by the given configuration.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

// IsWork reports whether name is the distinguished work profile.
func (r *Registry) IsWork(name string) bool {
	return r.cfg.WorkProfile != "" && name == r.cfg.WorkProfile
}

// IsKnown reports whether name is in the known profile set.
func (r *Registry) IsKnown(name string) bool {
	if r.IsWork(name) {
		return true
	}
	for _, other := range r.cfg.OtherProfileNames() {
		if name == other {
			return true
		}
	}
	return false
}

// Others returns the configured non-work profile names.
func (r *Registry) Others() []string {
	return r.cfg.OtherProfileNames()
}

// ScanStore lists the profiles present in the store directory, sorted, with
// the work profile and any non-alphanumeric entries excluded.
func (r *Registry) ScanStore() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.ProfileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile store %q: %w", r.cfg.ProfileDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !utils.IsValidProfileName(name) {
			continue
		}
		if r.IsWork(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// UpdateOthers rescans the profile store and rewrites the configured
// other-profile list. This is a full replace: running it twice against an
// unchanged store saves a byte-identical configuration.
func (r *Registry) UpdateOthers() ([]string, error) {
	names, err := r.ScanStore()
	if err != nil {
		return nil, err
	}
	r.cfg.SetOtherProfiles(names)
	if err := r.cfg.Save(); err != nil {
		return nil, err
	}
	return names, nil
}
