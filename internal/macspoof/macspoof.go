// Package macspoof invokes the hardware address randomization utility and
// extracts the newly assigned address from its output.
package macspoof

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/sysexec"
)

// macPattern matches a colon-separated hardware address token.
var macPattern = regexp.MustCompile(`(?i)\b([0-9a-f]{2}(?::[0-9a-f]{2}){5})\b`)

// Randomizer runs the randomization utility on the configured adapter.
type Randomizer struct {
	cfg    *config.Config
	runner sysexec.Runner
}

// Option configures a Randomizer.
type Option func(*Randomizer)

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner sysexec.Runner) Option {
	return func(r *Randomizer) {
		r.runner = runner
	}
}

// New creates a Randomizer for the given configuration.
func New(cfg *config.Config, opts ...Option) *Randomizer {
	r := &Randomizer{
		cfg:    cfg,
		runner: sysexec.NewRunner(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Randomize assigns a new hardware address to the adapter and returns the
// address reported by the utility. An empty address with a nil error means
// the tool succeeded but its output carried no recognizable address token.
func (r *Randomizer) Randomize(ctx context.Context) (string, error) {
	sudoPath, err := r.runner.LookPath(r.cfg.SudoCommand)
	if err != nil {
		return "", fmt.Errorf("privilege escalation binary %q not found: %w", r.cfg.SudoCommand, err)
	}

	args := []string{r.cfg.MAC.Command}
	if opts := strings.Fields(r.cfg.MAC.Options); len(opts) > 0 {
		args = append(args, opts...)
	}
	args = append(args, r.cfg.Adapter)

	var out bytes.Buffer
	// #nosec G204 - sudoPath is resolved via LookPath, remaining args come from config
	cmd := r.runner.CommandContext(ctx, sudoPath, args...)
	cmd.SetStdout(&out)
	cmd.SetStderr(&out)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w", r.cfg.MAC.Command, err)
	}

	return ExtractAddress(out.String()), nil
}

// ExtractAddress returns the last hardware address token found in the tool
// output. Randomizers print the permanent, current and new addresses in that
// order, so the last token is the newly assigned one.
func ExtractAddress(output string) string {
	matches := macPattern.FindAllString(output, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}
