package sysexec

import (
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// MockResult scripts the behavior of a single mocked command invocation.
type MockResult struct {
	// Stdout is written to the command's stdout writer on Run.
	Stdout string
	// Stderr is written to the command's stderr writer on Run.
	Stderr string
	// ExitCode is the simulated process exit code.
	ExitCode int
	// Err is returned from Run directly (start failure etc.), taking
	// precedence over ExitCode.
	Err error
}

// MockRunner is an in-memory Runner implementation for testing. Results are
// scripted per command line; every invocation is recorded in order.
type MockRunner struct {
	mu sync.Mutex

	// results maps a joined command line ("name arg1 arg2") to its scripted
	// result. Unscripted command lines succeed with no output.
	results map[string]MockResult

	// lookPathErr, when set, is returned from every LookPath call.
	lookPathErr error

	// calls records every executed command line in invocation order.
	calls []string
}

// NewMockRunner creates a new mock command runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		results: make(map[string]MockResult),
	}
}

// Script sets the result for a command line.
func (m *MockRunner) Script(commandLine string, result MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[commandLine] = result
}

// SetLookPathError makes all LookPath calls fail.
func (m *MockRunner) SetLookPathError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookPathErr = err
}

// Calls returns the executed command lines in invocation order.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LookPath implements Runner.
func (m *MockRunner) LookPath(file string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookPathErr != nil {
		return "", m.lookPathErr
	}
	return file, nil
}

// CommandContext implements Runner.
func (m *MockRunner) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &mockCommand{
		runner:      m,
		commandLine: strings.Join(append([]string{name}, args...), " "),
	}
}

// mockCommand is the Command implementation returned by MockRunner.
type mockCommand struct {
	runner      *MockRunner
	commandLine string
	stdout      io.Writer
	stderr      io.Writer
}

func (c *mockCommand) SetStdin(stdin io.Reader) {}

func (c *mockCommand) SetStdout(stdout io.Writer) {
	c.stdout = stdout
}

func (c *mockCommand) SetStderr(stderr io.Writer) {
	c.stderr = stderr
}

func (c *mockCommand) Run() error {
	c.runner.mu.Lock()
	c.runner.calls = append(c.runner.calls, c.commandLine)
	result := c.runner.results[c.commandLine]
	c.runner.mu.Unlock()

	if result.Stdout != "" && c.stdout != nil {
		_, _ = c.stdout.Write([]byte(result.Stdout))
	}
	if result.Stderr != "" && c.stderr != nil {
		_, _ = c.stderr.Write([]byte(result.Stderr))
	}

	if result.Err != nil {
		return result.Err
	}
	if result.ExitCode != 0 {
		return exitError(result.ExitCode)
	}
	return nil
}

// exitError builds a real *exec.ExitError carrying the given exit code so
// that ExitCode() on the caller side behaves as it would in production.
func exitError(code int) error {
	cmd := exec.Command("sh", "-c", "exit "+strconv.Itoa(code))
	_ = cmd.Run() // Run to populate ProcessState
	return &exec.ExitError{ProcessState: cmd.ProcessState}
}
