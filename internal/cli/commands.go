package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/airswitch/airswitch/internal/macspoof"
	"github.com/airswitch/airswitch/internal/netman"
	"github.com/airswitch/airswitch/internal/netpoll"
	"github.com/airswitch/airswitch/internal/notify"
	"github.com/airswitch/airswitch/internal/orchestrator"
	"github.com/airswitch/airswitch/internal/passcache"
	"github.com/airswitch/airswitch/internal/profile"
	"github.com/airswitch/airswitch/internal/prompt"
)

// newRegistry builds the profile registry from the loaded configuration.
func (cli *CLI) newRegistry() *profile.Registry {
	return profile.NewRegistry(cli.Config)
}

// runConnect executes the full connection orchestration for a profile.
func (cli *CLI) runConnect(ctx context.Context, name string) error {
	orch := orchestrator.New(cli.Config, orchestrator.Deps{
		NetworkManager: netman.New(cli.Config),
		Randomizer:     macspoof.New(cli.Config),
		Cache:          passcache.New(cli.Config),
		Injector:       profile.NewInjector(cli.Config),
		Poller:         netpoll.New(cli.Config),
		Registry:       cli.newRegistry(),
		Secrets:        cli.Keyring,
		Prompter:       prompt.NewTerminal(),
		Notifier:       notify.New(cli.Config.Notifications),
	})

	_, err := orch.Connect(ctx, name)
	if err != nil {
		if errors.Is(err, netpoll.ErrAdapterUnavailable) {
			return fmt.Errorf("cannot connect to %s: %w", name, err)
		}
		return fmt.Errorf("connection to %s failed: %w", name, err)
	}
	return nil
}

// runRestart is a single pass-through to the network manager; the connect
// sequence (stop-all, adapter reset, credential staging) does not run.
func (cli *CLI) runRestart(ctx context.Context, name string) error {
	if err := netman.New(cli.Config).Restart(ctx, name); err != nil {
		return fmt.Errorf("failed to restart %s: %w", name, err)
	}
	fmt.Printf("Restarted %s\n", name)
	return nil
}

// runShowPassword displays the cached password at the given rotation index.
// An out-of-range index is a display failure, not a parse error: it is
// reported on stdout and the process still exits successfully.
func (cli *CLI) runShowPassword(ctx context.Context, index int) error {
	cache := passcache.New(cli.Config)

	secret, err := cache.ByIndex(ctx, index)
	if err != nil {
		if errors.Is(err, passcache.ErrOutOfRange) {
			fmt.Printf("Password index: %d is out of range. Cannot display password\n", index)
			return nil
		}
		return err
	}

	switch index {
	case passcache.IndexToday:
		fmt.Printf("Daily work password is: %s\n", secret)
	case passcache.IndexTomorrow:
		fmt.Printf("Tomorrow's work password is: %s\n", secret)
	default:
		fmt.Printf("Work password [%d] is: %s\n", index, secret)
	}
	return nil
}

// runUpdateProfiles rescans the profile store and rewrites the configured
// other-profile list. Full replace, idempotent.
func (cli *CLI) runUpdateProfiles() error {
	names, err := cli.newRegistry().UpdateOthers()
	if err != nil {
		return fmt.Errorf("failed to update profile list: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No other profiles found in the profile store.")
		return nil
	}
	fmt.Printf("Updated profile list (%d profiles):\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
