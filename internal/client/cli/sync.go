package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/bakesync/internal/client/storage"
	clientsync "github.com/iudanet/bakesync/internal/client/sync"
)

func newSyncCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one pull-merge-push cycle now",
		Args:  cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			return c.runSync(ctx)
		}),
	}
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	result, err := c.syncer.SyncOnce(ctx)
	if err != nil {
		switch {
		case errors.Is(err, clientsync.ErrAuthRequired):
			return fmt.Errorf("synchronization paused: %w (run 'bakesync login')", err)
		case errors.Is(err, storage.ErrQuotaExceeded):
			return fmt.Errorf("synchronization paused: %w (free disk space and retry)", err)
		}
		return fmt.Errorf("synchronization failed, changes stay queued: %w", err)
	}

	c.printResult(result)
	return nil
}

func (c *Cli) printResult(result *clientsync.SyncResult) {
	c.io.Println("✓ Synchronization completed")
	c.io.Println()
	c.io.Printf("Snapshot version:   %d\n", result.Version)
	c.io.Printf("Pulled records:     %d\n", result.Pulled)
	c.io.Printf("Applied changes:    %d\n", result.Applied)
	if result.LocalWins > 0 {
		c.io.Printf("Kept local:         %d\n", result.LocalWins)
	}
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts resolved: %d\n", result.Conflicts)
	}
	if result.Collected > 0 {
		c.io.Printf("Tombstones removed: %d\n", result.Collected)
	}
	if result.Remaining > 0 {
		c.io.Printf("Still pending:      %d\n", result.Remaining)
	}
	if result.Attempts > 1 {
		c.io.Printf("Attempts:           %d\n", result.Attempts)
	}
	if result.Reseeded {
		c.io.Println("⚠️  The remote document was unreadable and has been rewritten from local data")
	}
	if !result.Pushed {
		c.io.Println("Nothing to push, remote is up to date")
	}
	c.io.Printf("Took %s\n", result.Duration.Round(time.Millisecond))
}
