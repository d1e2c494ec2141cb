package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/bakesync/internal/models"
)

func newPutCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "put <type> <file|->",
		Short: "Create or replace an entity from a JSON document",
		Example: `  bakesync put recipe sourdough.json
  echo '{"id":"C1","name":"Cafe Nord"}' | bakesync put customer -`,
		Args: cobra.ExactArgs(2),
		RunE: withCli(open, func(ctx context.Context, c *Cli, args []string) error {
			return c.runPut(ctx, args[0], args[1])
		}),
	}
}

func newDeleteCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: withCli(open, func(ctx context.Context, c *Cli, args []string) error {
			return c.runDelete(ctx, args[0], args[1])
		}),
	}
}

func newListCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List live entities of a type as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: withCli(open, func(ctx context.Context, c *Cli, args []string) error {
			return c.runList(ctx, args[0])
		}),
	}
}

func (c *Cli) runPut(ctx context.Context, typ, source string) error {
	kind, err := models.ParseEntityType(typ)
	if err != nil {
		return err
	}

	raw, err := c.readSource(source)
	if err != nil {
		return err
	}

	e, err := c.data.Put(ctx, kind, raw)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}

	c.io.Printf("✓ Saved %s %s\n", kind, e.EntityID())
	return nil
}

func (c *Cli) runDelete(ctx context.Context, typ, id string) error {
	kind, err := models.ParseEntityType(typ)
	if err != nil {
		return err
	}

	if err := c.data.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	c.io.Printf("✓ Deleted %s %s\n", kind, id)
	return nil
}

func (c *Cli) runList(ctx context.Context, typ string) error {
	kind, err := models.ParseEntityType(typ)
	if err != nil {
		return err
	}

	items, err := c.data.List(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}

	// Одна сущность на строку: вывод удобно разбирать jq
	for _, e := range items {
		line, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", kind, e.EntityID(), err)
		}
		line = append(line, '\n')
		if _, err := c.io.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// readSource читает JSON из файла или stdin ("-")
func (c *Cli) readSource(source string) (json.RawMessage, error) {
	var (
		raw []byte
		err error
	)
	if source == "-" {
		raw, err = io.ReadAll(c.in)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s: not a JSON document", source)
	}
	return raw, nil
}
