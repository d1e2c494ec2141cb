package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/bakesync/internal/client/sync"
)

func newRunCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Keep syncing in the background until interrupted",
		Long: `Run the sync scheduler until SIGINT or SIGTERM. Pending changes are
pushed on start and the remote document is polled every sync.interval.
Send SIGUSR1 to sync immediately.`,
		Args: cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			wake, stopWake := wakeSignals()
			defer stopWake()

			return c.runScheduler(ctx, wake)
		}),
	}
}

// runScheduler крутит планировщик до отмены ctx; сигнал из wake
// запускает синхронизацию немедленно
func (c *Cli) runScheduler(ctx context.Context, wake <-chan os.Signal) error {
	sub := c.scheduler.StatusChanges()
	defer sub.Unsubscribe()
	updates := sub.C()

	errC := make(chan error, 1)
	go func() { errC <- c.scheduler.Run(ctx) }()

	c.io.Println("Background sync started. Press Ctrl+C to stop.")
	last := c.scheduler.Status().State

	for {
		select {
		case <-wake:
			c.io.Println("Sync requested")
			c.scheduler.Foreground()

		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			st := c.scheduler.Status()
			if st.State != last {
				last = st.State
				c.printState(st)
			}

		case err := <-errC:
			c.io.Println("Background sync stopped")
			return err
		}
	}
}

func (c *Cli) printState(st clientsync.Status) {
	switch st.State {
	case clientsync.StateSyncing:
		c.io.Println("Syncing...")
	case clientsync.StateIdle:
		if st.LastResult != nil {
			c.io.Printf("✓ In sync at version %d (%d change(s) pushed)\n", st.LastResult.Version, st.LastResult.Applied)
		}
	case clientsync.StateBackoff:
		wait := st.NextAttemptAt.Sub(c.now()).Round(time.Second)
		c.io.Printf("⚠️  Sync failed: %v. Retrying in %s\n", st.LastError, wait)
	case clientsync.StatePaused:
		c.io.Printf("Sync paused: %v\n", st.LastError)
	case clientsync.StateDisabled:
		c.io.Println("Sync disabled")
	}
}
