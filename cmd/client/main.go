package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/bakesync/internal/client/app"
	"github.com/iudanet/bakesync/internal/client/cli"
	"github.com/iudanet/bakesync/internal/client/iocli"
	"github.com/iudanet/bakesync/internal/config"
	"github.com/iudanet/bakesync/internal/logging"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	version := fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)

	if err := cli.NewRootCommand(version, openClient).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openClient загружает конфигурацию и открывает локальное хранилище
func openClient(ctx context.Context, cmd *cobra.Command) (*cli.Cli, func() error, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadClient(file, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	stdio := iocli.NewStdio()
	a, err := app.Open(ctx, cfg, logger, app.WithPrompter(stdio))
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, fmt.Errorf("failed to open local store %s: %w", cfg.DBPath, err)
	}

	release := func() error {
		// Close сбрасывает буфер операций, поэтому без отмены ctx команды
		return errors.Join(a.Close(context.Background()), logCloser.Close())
	}
	return cli.New(stdio, a), release, nil
}
