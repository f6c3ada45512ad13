// Package cli provides the command-line interface for airswitch.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/keyring"
	"github.com/airswitch/airswitch/internal/version"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config  *config.Config
	Keyring keyring.Store
	rootCmd *cobra.Command
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Keyring: keyring.DefaultStore(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "airswitch [-s|--show <index|today|tomorrow>] [-r|--restart <name>] [-u|--update] [<profile>]",
		Short: "airswitch - wireless profile switcher",
		Long: `airswitch switches the machine between wireless network profiles.

Connecting to a profile tears down every active connection, resets the
wireless adapter, optionally randomizes its hardware address, and blocks
until the new network path is actually usable. The work profile's rotating
password is fetched from the external password cache and injected into the
profile definition before connecting.

Examples:
  # Connect to a profile
  airswitch home

  # Show today's work password
  airswitch -s today

  # Restart a profile without the full connect sequence
  airswitch -r home

  # Rescan the profile store and update the configured profile list
  airswitch -u`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.run(cmd, args)
		},
	}

	return cli
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// run loads configuration, decides the request from the raw argument vector,
// and routes it. The request is fully decided before any side effect.
func (cli *CLI) run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Config = cfg

	req := Dispatch(args, cli.newRegistry())

	switch req.Kind {
	case KindHelp:
		return cmd.Help()
	case KindVersion:
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		return nil
	case KindConnect:
		return cli.runConnect(cmd.Context(), req.Profile)
	case KindRestart:
		return cli.runRestart(cmd.Context(), req.Profile)
	case KindShowPassword:
		return cli.runShowPassword(cmd.Context(), req.Index)
	case KindUpdateProfiles:
		return cli.runUpdateProfiles()
	case KindInvalid:
		return fmt.Errorf("%s", req.Reason)
	default:
		return fmt.Errorf("unhandled request kind %d", req.Kind)
	}
}
