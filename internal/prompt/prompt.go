// Package prompt reads secrets from the controlling terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the operator for a secret value.
type Prompter interface {
	// ReadSecret displays the label and blocks until the operator enters a
	// value. With no terminal attached this blocks until stdin delivers a
	// line, which may be indefinitely.
	ReadSecret(label string) (string, error)
}

// Terminal is a Prompter backed by the process's controlling terminal.
type Terminal struct {
	// In is the secret source, normally os.Stdin.
	In *os.File
	// Out receives the prompt label, normally os.Stderr so the label never
	// mixes with captured stdout.
	Out io.Writer
}

// NewTerminal creates a Prompter on the standard streams.
func NewTerminal() *Terminal {
	return &Terminal{
		In:  os.Stdin,
		Out: os.Stderr,
	}
}

// ReadSecret implements Prompter. On a real terminal the input is read with
// echo disabled; otherwise a plain line read is used so scripted input works.
func (t *Terminal) ReadSecret(label string) (string, error) {
	fmt.Fprintf(t.Out, "%s: ", label)

	if term.IsTerminal(int(t.In.Fd())) {
		raw, err := term.ReadPassword(int(t.In.Fd()))
		fmt.Fprintln(t.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(t.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Static is a Prompter that always answers with a fixed value. Used in tests.
type Static struct {
	// Secret is the canned answer.
	Secret string
	// Err, when set, is returned instead.
	Err error
	// Labels records the prompt labels seen, in order.
	Labels []string
}

// ReadSecret implements Prompter.
func (s *Static) ReadSecret(label string) (string, error) {
	s.Labels = append(s.Labels, label)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Secret, nil
}
