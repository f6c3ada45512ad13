// Package orchestrator runs the ordered sequence of side-effecting steps that
// switches the machine onto a wireless profile: stop everything, reset the
// adapter, optionally randomize the hardware address, stage the rotating
// credential, connect, and block until the network path is usable.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/keyring"
	"github.com/airswitch/airswitch/internal/netpoll"
	"github.com/airswitch/airswitch/internal/notify"
	"github.com/airswitch/airswitch/internal/passcache"
	"github.com/airswitch/airswitch/internal/prompt"
)

// Outcome is the terminal result of a connection attempt.
type Outcome int

const (
	// OutcomePending means the attempt has not reached a terminal state.
	OutcomePending Outcome = iota
	// OutcomeSucceeded means the network path was confirmed usable.
	OutcomeSucceeded
	// OutcomeTimedOut is reserved: the readiness poll is unbounded by
	// design, so no code path currently produces it.
	OutcomeTimedOut
	// OutcomeAdapterUnavailable means the wireless adapter was missing or
	// down at the readiness check. Fatal.
	OutcomeAdapterUnavailable
	// OutcomeFailed covers every other terminal failure.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeAdapterUnavailable:
		return "adapter unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt is the ephemeral record of one orchestration run. It is created at
// the start of a run and discarded at the end; the outcome only ever moves
// from pending to a terminal value once.
type Attempt struct {
	// Profile is the target profile name.
	Profile string
	// Start is the monotonic start timestamp.
	Start time.Time
	// Outcome is the terminal result.
	Outcome Outcome
	// Elapsed is the readiness wait duration, valid when Outcome is
	// OutcomeSucceeded.
	Elapsed time.Duration
}

// finish records the terminal outcome. A terminal attempt never transitions
// again.
func (a *Attempt) finish(o Outcome) {
	if a.Outcome == OutcomePending {
		a.Outcome = o
	}
}

// NetworkManager is the subset of netman operations the state machine needs.
type NetworkManager interface {
	Connect(ctx context.Context, profile string) error
	StopAll(ctx context.Context) error
	LinkDown(ctx context.Context) error
}

// Randomizer assigns a new hardware address and reports it.
type Randomizer interface {
	Randomize(ctx context.Context) (string, error)
}

// PasswordCache is the subset of passcache operations the state machine needs.
type PasswordCache interface {
	Today(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

// SecretWriter rewrites the stored secret of a profile definition.
type SecretWriter interface {
	SetSecret(name, secret string) error
}

// ReadinessWaiter blocks until the network path is usable.
type ReadinessWaiter interface {
	Wait(ctx context.Context) (time.Duration, error)
}

// WorkProfileChecker identifies the distinguished work profile.
type WorkProfileChecker interface {
	IsWork(name string) bool
}

// Orchestrator drives one connection attempt at a time, strictly
// sequentially. It holds no state between runs.
type Orchestrator struct {
	cfg        *config.Config
	netman     NetworkManager
	randomizer Randomizer
	cache      PasswordCache
	injector   SecretWriter
	poller     ReadinessWaiter
	registry   WorkProfileChecker
	secrets    keyring.Store
	prompter   prompt.Prompter
	notifier   notify.Notifier
	stdout     io.Writer
	stderr     io.Writer
}

// Deps bundles the collaborators an Orchestrator drives.
type Deps struct {
	NetworkManager NetworkManager
	Randomizer     Randomizer
	Cache          PasswordCache
	Injector       SecretWriter
	Poller         ReadinessWaiter
	Registry       WorkProfileChecker
	Secrets        keyring.Store
	Prompter       prompt.Prompter
	Notifier       notify.Notifier
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStdout sets the writer for user-visible progress lines.
func WithStdout(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdout = w
	}
}

// WithStderr sets the writer for failure lines.
func WithStderr(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.stderr = w
	}
}

// New creates an Orchestrator from its collaborators.
func New(cfg *config.Config, deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		netman:     deps.NetworkManager,
		randomizer: deps.Randomizer,
		cache:      deps.Cache,
		injector:   deps.Injector,
		poller:     deps.Poller,
		registry:   deps.Registry,
		secrets:    deps.Secrets,
		prompter:   deps.Prompter,
		notifier:   deps.Notifier,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Connect runs the full ordered sequence for the named profile. States run
// strictly in order with no skipping and no re-entry; the only conditional
// states are hardware address randomization (config flag) and credential
// staging (work profile only).
func (o *Orchestrator) Connect(ctx context.Context, profileName string) (*Attempt, error) {
	attempt := &Attempt{
		Profile: profileName,
		Start:   time.Now(),
	}

	// StoppingAll: tear down every active profile for a clean slate.
	if err := o.netman.StopAll(ctx); err != nil {
		// Nothing may have been running; the readiness check is the
		// authoritative signal, so keep going.
		fmt.Fprintf(o.stderr, "warning: stop-all failed: %v\n", err)
	}

	// AdapterReset: bring the link down. Purely preparatory, failures are
	// not independently detected.
	if err := o.netman.LinkDown(ctx); err != nil {
		fmt.Fprintf(o.stderr, "warning: adapter reset failed: %v\n", err)
	}

	// HardwareAddressRandomization: best effort, non-fatal.
	if o.cfg.MAC.Randomize {
		addr, err := o.randomizer.Randomize(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(o.stdout, "Hardware address randomization failed: %v\n", err)
		case addr != "":
			fmt.Fprintf(o.stdout, "New hardware address: %s\n", addr)
		}
	}

	// CredentialStaging: work profile only.
	if o.registry.IsWork(profileName) {
		if err := o.stageCredential(ctx, profileName); err != nil {
			fmt.Fprintf(o.stderr, "%v\n", err)
		}
	}

	// Connecting: bring up the target profile.
	if err := o.netman.Connect(ctx, profileName); err != nil {
		attempt.finish(OutcomeFailed)
		o.notifyFailure(profileName, err)
		return attempt, err
	}

	// WaitingForNetwork: block until the path is usable. Only adapter
	// absence is fatal; the poll itself is unbounded.
	elapsed, err := o.poller.Wait(ctx)
	if err != nil {
		if errors.Is(err, netpoll.ErrAdapterUnavailable) {
			attempt.finish(OutcomeAdapterUnavailable)
		} else {
			attempt.finish(OutcomeFailed)
		}
		o.notifyFailure(profileName, err)
		return attempt, err
	}

	attempt.Elapsed = elapsed
	attempt.finish(OutcomeSucceeded)
	fmt.Fprintf(o.stdout, "Connected to %s. Network reachable after %dms\n", profileName, elapsed.Milliseconds())

	if o.notifier != nil {
		_ = o.notifier.NotifyConnected(profileName, elapsed) //nolint:errcheck // notifications are best effort
	}

	// PostConnectRefresh: pre-fetch future rotations now that the network is
	// up, regardless of which profile connected. The refresh outcome never
	// changes the attempt's own outcome.
	if err := o.cache.Refresh(ctx); err != nil {
		fmt.Fprintf(o.stdout, "Password cache refresh failed: %v\n", err)
	} else {
		fmt.Fprintln(o.stdout, "Password cache refreshed")
	}

	return attempt, nil
}

// stageCredential acquires the rotating secret and injects it into the work
// profile definition. Lookup order: today's cache entry, the keyring's
// remembered secret, then a synchronous prompt on the controlling terminal.
func (o *Orchestrator) stageCredential(ctx context.Context, profileName string) error {
	secret, err := o.cache.Today(ctx)
	if err != nil {
		if !errors.Is(err, passcache.ErrCacheMiss) {
			return err
		}

		fmt.Fprintf(o.stdout, "Today's password is not cached\n")

		if o.secrets != nil {
			if remembered, kerr := o.secrets.Get(profileName); kerr == nil {
				fmt.Fprintf(o.stdout, "Using last known password from keyring\n")
				secret = remembered
			}
		}

		if secret == "" {
			secret, err = o.prompter.ReadSecret("Enter work password")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
	}

	if secret == "" {
		return errors.New("no password available for work profile")
	}

	if o.secrets != nil {
		// Remember the secret for the next cache miss. Best effort: a
		// missing keyring never blocks the connection.
		_ = o.secrets.Set(profileName, secret) //nolint:errcheck
	}

	return o.injector.SetSecret(profileName, secret)
}

// notifyFailure sends a failure notification when configured.
func (o *Orchestrator) notifyFailure(profileName string, err error) {
	if o.notifier != nil {
		_ = o.notifier.NotifyFailure(profileName, err) //nolint:errcheck // notifications are best effort
	}
}
