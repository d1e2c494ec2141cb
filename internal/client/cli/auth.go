package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iudanet/bakesync/internal/client/auth"
)

func newLoginCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store an access token issued by the backend",
		Args:  cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogin(ctx)
		}),
	}
}

func newLogoutCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: withCli(open, func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogout(ctx)
		}),
	}
}

func (c *Cli) runLogin(ctx context.Context) error {
	token, err := c.io.ReadPassword("Access token: ")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}

	session, err := c.session.Login(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Printf("✓ Logged in to account %s\n", session.AccountID)
	if session.ExpiresAt > 0 {
		c.io.Printf("Token expires %s\n", humanize.Time(time.Unix(session.ExpiresAt, 0)))
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.io.Println("✓ Logged out. Local data and pending changes are kept.")
	return nil
}

// printSession печатает состояние авторизации для status
func (c *Cli) printSession(ctx context.Context) error {
	session, err := c.session.Current(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.io.Println("Account:   not logged in (run 'bakesync login')")
		return nil
	}
	if err != nil {
		return err
	}

	c.io.Printf("Account:   %s\n", session.AccountID)
	switch {
	case session.ExpiresAt == 0:
		c.io.Println("Token:     no expiry")
	case auth.Expired(session, c.now()):
		c.io.Printf("Token:     expired %s, run 'bakesync login'\n", humanize.Time(time.Unix(session.ExpiresAt, 0)))
	default:
		c.io.Printf("Token:     expires %s\n", humanize.Time(time.Unix(session.ExpiresAt, 0)))
	}
	return nil
}
