package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntity(t *testing.T) {
	tests := []struct {
		name    string
		kind    EntityType
		raw     string
		wantErr bool
	}{
		{
			name: "recipe",
			kind: EntityRecipe,
			raw:  `{"id":"R1","name":"Sourdough","yieldQty":2,"ingredients":[{"ingredientId":"I1","quantity":500,"unit":"g"}]}`,
		},
		{
			name: "order with known status",
			kind: EntityOrder,
			raw:  `{"id":"O1","status":"baking","items":[{"recipeId":"R1","quantity":3,"unitPriceCents":450}],"totalCents":1350}`,
		},
		{
			name: "customer",
			kind: EntityCustomer,
			raw:  `{"id":"C1","name":"Ada","email":"ada@example.com"}`,
		},
		{
			name: "ingredient",
			kind: EntityIngredient,
			raw:  `{"id":"I1","name":"Flour","unit":"kg","costPerUnitCents":120}`,
		},
		{
			name: "inventory item",
			kind: EntityInventoryItem,
			raw:  `{"id":"S1","name":"Flour bin","unit":"kg","quantity":12.5}`,
		},
		{
			name: "settings singleton",
			kind: EntitySettings,
			raw:  `{"id":"settings","currency":"EUR","taxRatePercent":7,"timezone":"UTC"}`,
		},
		{
			name:    "unknown fields are tolerated but schema still checked",
			kind:    EntityCustomer,
			raw:     `{"id":"C1","loyalty":3}`,
			wantErr: true,
		},
		{
			name:    "order with unknown status",
			kind:    EntityOrder,
			raw:     `{"id":"O1","status":"burnt"}`,
			wantErr: true,
		},
		{
			name:    "negative inventory",
			kind:    EntityInventoryItem,
			raw:     `{"id":"S1","name":"Sugar","unit":"kg","quantity":-1}`,
			wantErr: true,
		},
		{
			name:    "settings with wrong id",
			kind:    EntitySettings,
			raw:     `{"id":"prefs","currency":"EUR"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			kind:    EntityRecipe,
			raw:     `{"id":`,
			wantErr: true,
		},
		{
			name:    "wrong json shape",
			kind:    EntityRecipe,
			raw:     `["R1"]`,
			wantErr: true,
		},
		{
			name:    "unknown entity type",
			kind:    "cakes",
			raw:     `{"id":"X"}`,
			wantErr: true,
		},
		{
			name:    "empty payload",
			kind:    EntityRecipe,
			raw:     ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := DecodeEntity(tt.kind, json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEntity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, e.Kind())
			assert.NotEmpty(t, e.EntityID())
		})
	}
}

func TestEncodeEntity(t *testing.T) {
	raw, err := EncodeEntity(&Ingredient{ID: "I1", Name: "Butter", Unit: "kg", CostPerUnitCents: 900})
	require.NoError(t, err)

	back, err := DecodeEntity(EntityIngredient, raw)
	require.NoError(t, err)
	assert.Equal(t, "Butter", back.(*Ingredient).Name)

	_, err = EncodeEntity(&Ingredient{ID: "I2"})
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = EncodeEntity(nil)
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestParseEntityType(t *testing.T) {
	for in, want := range map[string]EntityType{
		"recipe":         EntityRecipe,
		"Orders":         EntityOrder,
		"inventory":      EntityInventoryItem,
		"inventoryItems": EntityInventoryItem,
		"settings":       EntitySettings,
	} {
		got, err := ParseEntityType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEntityType("cake")
	assert.Error(t, err)
}

func TestInventoryItem_NeedsReorder(t *testing.T) {
	assert.True(t, (&InventoryItem{Quantity: 2, ReorderLevel: 5}).NeedsReorder())
	assert.False(t, (&InventoryItem{Quantity: 6, ReorderLevel: 5}).NeedsReorder())
	assert.False(t, (&InventoryItem{Quantity: 0}).NeedsReorder())
}
