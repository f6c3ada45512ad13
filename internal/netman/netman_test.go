package netman

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/sysexec"
)

func newTestManager(runner *sysexec.MockRunner) *Manager {
	cfg := config.Default()
	return New(cfg, WithRunner(runner), WithStdout(io.Discard), WithStderr(io.Discard))
}

func TestManagerCommandLines(t *testing.T) {
	tests := []struct {
		name string
		call func(m *Manager) error
		want string
	}{
		{"connect", func(m *Manager) error { return m.Connect(context.Background(), "home") }, "sudo netctl start home"},
		{"disconnect", func(m *Manager) error { return m.Disconnect(context.Background(), "home") }, "sudo netctl stop home"},
		{"stop all", func(m *Manager) error { return m.StopAll(context.Background()) }, "sudo netctl stop-all"},
		{"restart", func(m *Manager) error { return m.Restart(context.Background(), "foo") }, "sudo netctl restart foo"},
		{"link down", func(m *Manager) error { return m.LinkDown(context.Background()) }, "sudo ip link set wlan0 down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := sysexec.NewMockRunner()
			m := newTestManager(runner)

			if err := tt.call(m); err != nil {
				t.Fatalf("operation failed: %v", err)
			}

			calls := runner.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected exactly one invocation, got %v", calls)
			}
			if calls[0] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, calls[0])
			}
		})
	}
}

func TestManagerCommandFailure(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("sudo netctl start home", sysexec.MockResult{ExitCode: 1})
	m := newTestManager(runner)

	if err := m.Connect(context.Background(), "home"); err == nil {
		t.Error("expected an error when netctl fails")
	}
}

func TestManagerMissingSudo(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.SetLookPathError(errors.New("executable file not found in $PATH"))
	m := newTestManager(runner)

	if err := m.StopAll(context.Background()); err == nil {
		t.Error("expected an error when the privilege escalation binary is missing")
	}

	if calls := runner.Calls(); len(calls) != 0 {
		t.Errorf("expected no invocation without sudo, got %v", calls)
	}
}
