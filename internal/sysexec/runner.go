// Package sysexec abstracts external process execution so that the
// collaborator tools (network manager, randomizer, password cache) can be
// mocked in tests without executing binaries.
package sysexec

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner is an interface for executing commands.
type Runner interface {
	// LookPath finds the executable in PATH
	LookPath(file string) (string, error)
	// CommandContext creates a command that can be executed
	CommandContext(ctx context.Context, name string, args ...string) Command
}

// Command represents an executable command.
type Command interface {
	// SetStdin sets the stdin reader
	SetStdin(stdin io.Reader)
	// SetStdout sets the stdout writer
	SetStdout(stdout io.Writer)
	// SetStderr sets the stderr writer
	SetStderr(stderr io.Writer)
	// Run starts the command and waits for it to complete
	Run() error
}

// ExitCode extracts the process exit code from a Run error. It returns 0 for
// a nil error, the child's exit code for an exec.ExitError, and -1 for errors
// that carry no exit status (binary missing, start failure).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// realRunner is the real implementation using os/exec.
type realRunner struct{}

// NewRunner creates a new real command runner.
func NewRunner() Runner {
	return &realRunner{}
}

func (r *realRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *realRunner) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &realCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

// realCommand wraps exec.Cmd to implement the Command interface.
type realCommand struct {
	cmd *exec.Cmd
}

func (c *realCommand) SetStdin(stdin io.Reader) {
	c.cmd.Stdin = stdin
}

func (c *realCommand) SetStdout(stdout io.Writer) {
	c.cmd.Stdout = stdout
}

func (c *realCommand) SetStderr(stderr io.Writer) {
	c.cmd.Stderr = stderr
}

func (c *realCommand) Run() error {
	return c.cmd.Run()
}
