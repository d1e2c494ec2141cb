package cli

import (
	"context"
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatusCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account, pending changes and the last sync",
		Args:  cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			return c.runStatus(ctx)
		}),
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()
	c.io.Printf("Device:    %s\n", c.deviceID)

	if err := c.printSession(ctx); err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	state, err := c.syncer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync state: %w", err)
	}

	c.io.Printf("Last sync: %s\n", since(state.LastSyncedAt))
	if state.LastMergedVersion > 0 {
		c.io.Printf("Version:   %d\n", state.LastMergedVersion)
	}
	if state.LastError != "" {
		c.io.Printf("Last error (%s, %d in a row): %s\n",
			since(state.LastAttemptAt), state.ConsecutiveFailures, state.LastError)
	}

	c.io.Println()
	if state.PendingOpCount > 0 {
		c.io.Printf("⚠️  Pending: %s change(s) waiting to be synchronized\n", humanize.Comma(int64(state.PendingOpCount)))
		c.io.Println("Run 'bakesync sync' to synchronize now.")
	} else {
		c.io.Println("✓ All local changes are synchronized")
	}
	return nil
}

func since(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
