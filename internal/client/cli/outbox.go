package cli

import (
	"context"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newOutboxCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "outbox",
		Short: "List local changes waiting to be pushed",
		Args:  cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			return c.runOutbox(ctx)
		}),
	}
}

func (c *Cli) runOutbox(ctx context.Context) error {
	ops, err := c.outbox.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read outbox: %w", err)
	}

	if len(ops) == 0 {
		c.io.Println("Outbox is empty")
		return nil
	}

	c.io.Printf("%-6s %-7s %-15s %-24s %s\n", "SEQ", "VERB", "TYPE", "ID", "WHEN")
	for _, op := range ops {
		c.io.Printf("%-6d %-7s %-15s %-24s %s\n", op.Seq, op.Verb, op.EntityType, op.EntityID, humanize.Time(op.WallClock))
	}
	c.io.Println()
	c.io.Printf("Total: %d operation(s)\n", len(ops))
	return nil
}
