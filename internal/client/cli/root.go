package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// Opener opens the client for one command. The returned func releases it.
type Opener func(ctx context.Context, cmd *cobra.Command) (*Cli, func() error, error)

// NewRootCommand creates the bakesync client command tree. Configuration
// flags are persistent and read by open.
func NewRootCommand(version string, open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bakesync",
		Short:         "Offline-first bakery data with background sync",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Имена флагов совпадают с ключами конфигурации (server-url -> server_url)
	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to config file (yaml, json or toml)")
	flags.String("server-url", "", "document backend URL")
	flags.String("db-path", "", "path to local database")
	flags.String("token", "", "access token (prefer BAKESYNC_TOKEN)")
	flags.String("passphrase", "", "encrypt the remote document (prefer BAKESYNC_PASSPHRASE)")
	flags.Duration("timeout", 0, "backend request timeout")

	cmd.AddCommand(
		newLoginCommand(open),
		newLogoutCommand(open),
		newStatusCommand(open),
		newSyncCommand(open),
		newOutboxCommand(open),
		newRunCommand(open),
		newPutCommand(open),
		newDeleteCommand(open),
		newListCommand(open),
	)

	return cmd
}

// withCli opens the client around fn and releases it afterwards
func withCli(open Opener, fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		c, release, err := open(ctx, cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, release())
		}()

		c.in = cmd.InOrStdin()
		return fn(ctx, c, args)
	}
}
