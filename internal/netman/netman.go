// Package netman wraps the external network profile manager. Every operation
// is a single privileged invocation of the netctl binary; no state is kept
// between calls.
package netman

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/sysexec"
)

// Manager invokes the network profile manager with elevated privilege.
type Manager struct {
	cfg    *config.Config
	runner sysexec.Runner
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Manager.
type Option func(*Manager)

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner sysexec.Runner) Option {
	return func(m *Manager) {
		m.runner = runner
	}
}

// WithStdout sets the stdout writer for the invoked tools.
func WithStdout(w io.Writer) Option {
	return func(m *Manager) {
		m.stdout = w
	}
}

// WithStderr sets the stderr writer for the invoked tools.
func WithStderr(w io.Writer) Option {
	return func(m *Manager) {
		m.stderr = w
	}
}

// New creates a Manager for the given configuration.
func New(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		runner: sysexec.NewRunner(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect brings up the named profile.
func (m *Manager) Connect(ctx context.Context, profile string) error {
	return m.netctl(ctx, "start", profile)
}

// Disconnect tears down the named profile.
func (m *Manager) Disconnect(ctx context.Context, profile string) error {
	return m.netctl(ctx, "stop", profile)
}

// StopAll tears down every active profile.
func (m *Manager) StopAll(ctx context.Context) error {
	return m.netctl(ctx, "stop-all")
}

// Restart restarts the named profile.
func (m *Manager) Restart(ctx context.Context, profile string) error {
	return m.netctl(ctx, "restart", profile)
}

// LinkDown brings the wireless adapter link down. This is purely preparatory
// before a connect; the readiness check is the authoritative signal, so the
// caller treats failures here as advisory.
func (m *Manager) LinkDown(ctx context.Context) error {
	return m.sudo(ctx, "ip", "link", "set", m.cfg.Adapter, "down")
}

// netctl runs a netctl verb with privilege escalation.
func (m *Manager) netctl(ctx context.Context, args ...string) error {
	return m.sudo(ctx, append([]string{m.cfg.NetctlCommand}, args...)...)
}

// sudo runs an arbitrary command line through the configured privilege
// escalation binary, streaming output to the configured writers.
func (m *Manager) sudo(ctx context.Context, args ...string) error {
	sudoPath, err := m.runner.LookPath(m.cfg.SudoCommand)
	if err != nil {
		return fmt.Errorf("privilege escalation binary %q not found: %w", m.cfg.SudoCommand, err)
	}

	// #nosec G204 - sudoPath is resolved via LookPath, args come from validated config/profile names
	cmd := m.runner.CommandContext(ctx, sudoPath, args...)
	cmd.SetStdin(os.Stdin)
	cmd.SetStdout(m.stdout)
	cmd.SetStderr(m.stderr)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", m.cfg.SudoCommand, args[0], err)
	}
	return nil
}
