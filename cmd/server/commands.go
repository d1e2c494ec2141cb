package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/bakesync/internal/config"
	"github.com/iudanet/bakesync/internal/logging"
	"github.com/iudanet/bakesync/internal/server"
	"github.com/iudanet/bakesync/internal/server/handlers"
	"github.com/iudanet/bakesync/internal/server/middleware"
	"github.com/iudanet/bakesync/internal/server/storage/sqlite"
	"github.com/iudanet/bakesync/pkg/api"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bakesync-server",
		Short:         "Document backend for bakesync clients",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to config file (yaml, json or toml)")
	flags.String("jwt-secret", "", "HMAC secret for access tokens (prefer BAKESYNC_JWT_SECRET)")

	cmd.AddCommand(newServeCommand(), newIssueTokenCommand())
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Server, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.LoadServer(file, cmd.Flags())
}

func jwtConfig(cfg *config.Server) handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the snapshot document API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.String("db-path", "", "path to SQLite database")
	flags.Int("rate-limit", 0, "requests per window per account")
	flags.Duration("rate-window", 0, "rate limit window")
	flags.Int64("max-body-size", 0, "maximum snapshot size in bytes")
	flags.Duration("shutdown-timeout", 0, "graceful shutdown timeout")
	return cmd
}

func serve(ctx context.Context, cfg *config.Server) (err error) {
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, logCloser.Close())
	}()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Failed to close database", "error", cerr)
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	router := server.NewRouter(logger, server.Options{
		Storage:     store,
		DB:          store,
		Limiter:     limiter,
		Version:     Version,
		JWT:         jwtConfig(cfg),
		MaxBodySize: cfg.MaxBodySize,
	})

	logger.Info("Starting bakesync server", "addr", cfg.Addr, "db", cfg.DBPath, "version", Version)
	return server.New(cfg.Addr, router, logger, cfg.ShutdownTimeout).Run(ctx)
}

func newIssueTokenCommand() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint an access token for an account",
		Long: `Mint an access token for an account and print it as JSON.

Every device of a bakery signs in with a token for the same account.`,
		Example: "  bakesync-server issue-token --account bakery-1 --token-ttl 720h",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return issueToken(cmd.OutOrStdout(), jwtConfig(cfg), account, time.Now())
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id (required)")
	cmd.Flags().Duration("token-ttl", 0, "token lifetime")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func issueToken(out io.Writer, cfg handlers.JWTConfig, account string, now time.Time) error {
	token, expiresIn, err := handlers.GenerateAccessToken(cfg, account, now)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(api.TokenResponse{AccessToken: token, ExpiresIn: expiresIn})
}
