package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/client/data"
	"github.com/iudanet/bakesync/internal/models"
)

func decodingEntities() *EntitiesMock {
	return &EntitiesMock{
		PutFunc: func(ctx context.Context, kind models.EntityType, raw json.RawMessage) (models.Entity, error) {
			return models.DecodeEntity(kind, raw)
		},
	}
}

func TestCli_runPut(t *testing.T) {
	dir := t.TempDir()
	recipeFile := filepath.Join(dir, "sourdough.json")
	require.NoError(t, os.WriteFile(recipeFile, []byte(`{"id":"R1","name":"Sourdough","yieldQty":2,"yieldUnit":"loaf"}`), 0o600))
	badFile := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badFile, []byte(`{"id":`), 0o600))

	tests := []struct {
		name      string
		typ       string
		source    string
		stdin     string
		wantErr   string
		wantKind  models.EntityType
		wantCalls int
	}{
		{name: "from stdin", typ: "customer", source: "-", stdin: `{"id":"C1","name":"Cafe Nord"}`, wantKind: models.EntityCustomer, wantCalls: 1},
		{name: "from file", typ: "recipes", source: recipeFile, wantKind: models.EntityRecipe, wantCalls: 1},
		{name: "unknown type", typ: "bagel", source: "-", stdin: `{}`, wantErr: "unknown entity type"},
		{name: "missing file", typ: "recipe", source: filepath.Join(dir, "nope.json"), wantErr: "failed to read"},
		{name: "not json", typ: "recipe", source: badFile, wantErr: "not a JSON document"},
		{name: "invalid entity", typ: "customer", source: "-", stdin: `{"id":"C1"}`, wantErr: "failed to save customers", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := newTestIO("")
			entities := decodingEntities()
			c := newTestCli(mockIO)
			c.data = entities
			c.in = strings.NewReader(tt.stdin)

			err := c.runPut(context.Background(), tt.typ, tt.source)
			assert.Len(t, entities.PutCalls(), tt.wantCalls)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, entities.PutCalls()[0].Kind)
			assert.Contains(t, out.String(), "✓ Saved "+string(tt.wantKind))
		})
	}
}

func TestCli_runDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mockIO, out := newTestIO("")
		entities := &EntitiesMock{
			DeleteFunc: func(ctx context.Context, kind models.EntityType, id string) error { return nil },
		}
		c := newTestCli(mockIO)
		c.data = entities

		require.NoError(t, c.runDelete(context.Background(), "order", "O1"))
		require.Len(t, entities.DeleteCalls(), 1)
		assert.Equal(t, models.EntityOrder, entities.DeleteCalls()[0].Kind)
		assert.Equal(t, "O1", entities.DeleteCalls()[0].Id)
		assert.Contains(t, out.String(), "Deleted orders O1")
	})

	t.Run("missing", func(t *testing.T) {
		mockIO, _ := newTestIO("")
		c := newTestCli(mockIO)
		c.data = &EntitiesMock{
			DeleteFunc: func(ctx context.Context, kind models.EntityType, id string) error { return data.ErrNotFound },
		}

		err := c.runDelete(context.Background(), "order", "O1")
		assert.ErrorIs(t, err, data.ErrNotFound)
	})
}

func TestCli_runList(t *testing.T) {
	mockIO, out := newTestIO("")
	c := newTestCli(mockIO)
	c.data = &EntitiesMock{
		ListFunc: func(ctx context.Context, kind models.EntityType) ([]models.Entity, error) {
			return []models.Entity{
				&models.Customer{ID: "C1", Name: "Cafe Nord"},
				&models.Customer{ID: "C2", Name: "Hotel Süd"},
			}, nil
		},
	}

	require.NoError(t, c.runList(context.Background(), "customers"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	var first models.Customer
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "C1", first.ID)
	assert.Equal(t, "Cafe Nord", first.Name)
}
