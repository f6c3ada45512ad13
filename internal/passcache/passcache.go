// Package passcache is a thin client for the external rotating password
// cache. The cache owns generation and rotation of the work profile key; this
// package only looks entries up and triggers pre-fetches.
package passcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/sysexec"
)

var (
	// ErrCacheMiss is returned when today's password is not in the cache.
	ErrCacheMiss = errors.New("password not found in cache")
	// ErrOutOfRange is returned when an index has no cached password.
	ErrOutOfRange = errors.New("password index out of range")
)

// Indices for the two rotation slots the cache always keeps warm.
const (
	// IndexToday is the cache slot for the current password.
	IndexToday = 0
	// IndexTomorrow is the cache slot for the next rotation.
	IndexTomorrow = 1
)

// Cache looks up rotating passwords via the external cache tool.
type Cache struct {
	cfg    *config.Config
	runner sysexec.Runner
}

// Option configures a Cache.
type Option func(*Cache)

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner sysexec.Runner) Option {
	return func(c *Cache) {
		c.runner = runner
	}
}

// New creates a Cache client for the given configuration.
func New(cfg *config.Config, opts ...Option) *Cache {
	c := &Cache{
		cfg:    cfg,
		runner: sysexec.NewRunner(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByIndex returns the cached password at the given rotation index. A nonzero
// exit or empty output from the cache tool means the index has no entry.
func (c *Cache) ByIndex(ctx context.Context, index int) (string, error) {
	out, err := c.run(ctx, "show", strconv.Itoa(index))
	if err != nil {
		// A nonzero exit from the tool means the index has no entry; any
		// other failure (binary missing, start error) propagates as-is.
		if sysexec.ExitCode(err) > 0 {
			return "", fmt.Errorf("%w: index %d", ErrOutOfRange, index)
		}
		return "", err
	}
	secret := strings.TrimSpace(out)
	if secret == "" {
		return "", fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}
	return secret, nil
}

// Today returns the current rotation's password. A missing entry is a cache
// miss the caller can recover from interactively.
func (c *Cache) Today(ctx context.Context) (string, error) {
	secret, err := c.ByIndex(ctx, IndexToday)
	if err != nil {
		if errors.Is(err, ErrOutOfRange) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return secret, nil
}

// Refresh asks the cache tool to pre-fetch upcoming rotations.
func (c *Cache) Refresh(ctx context.Context) error {
	if _, err := c.run(ctx, "update"); err != nil {
		return fmt.Errorf("cache refresh failed: %w", err)
	}
	return nil
}

// run executes the cache tool and returns its stdout.
func (c *Cache) run(ctx context.Context, args ...string) (string, error) {
	toolPath, err := c.runner.LookPath(c.cfg.Cache.Command)
	if err != nil {
		return "", fmt.Errorf("password cache binary %q not found: %w", c.cfg.Cache.Command, err)
	}

	var out bytes.Buffer
	// #nosec G204 - toolPath is resolved via LookPath, args are fixed verbs and integers
	cmd := c.runner.CommandContext(ctx, toolPath, args...)
	cmd.SetStdout(&out)

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}
