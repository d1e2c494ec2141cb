package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntityType идентифицирует коллекцию сущностей.
// Строковое значение совпадает с ключом коллекции в удаленном документе.
type EntityType string

// Entity types (collection keys)
const (
	EntityRecipe        EntityType = "recipes"
	EntityOrder         EntityType = "orders"
	EntityCustomer      EntityType = "customers"
	EntityIngredient    EntityType = "ingredients"
	EntityInventoryItem EntityType = "inventoryItems"
	EntitySettings      EntityType = "settings"
)

// SettingsID is the fixed id of the per-account settings singleton.
const SettingsID = "settings"

// AllEntityTypes lists every watched collection in a stable order.
var AllEntityTypes = []EntityType{
	EntityRecipe,
	EntityOrder,
	EntityCustomer,
	EntityIngredient,
	EntityInventoryItem,
	EntitySettings,
}

// ErrInvalidEntity is returned when an entity payload fails schema validation.
var ErrInvalidEntity = errors.New("invalid entity")

// Valid reports whether t is one of the known collections.
func (t EntityType) Valid() bool {
	for _, known := range AllEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseEntityType accepts both collection keys ("recipes") and
// singular names ("recipe") as typed on the command line.
func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recipe", "recipes":
		return EntityRecipe, nil
	case "order", "orders":
		return EntityOrder, nil
	case "customer", "customers":
		return EntityCustomer, nil
	case "ingredient", "ingredients":
		return EntityIngredient, nil
	case "inventory", "inventoryitem", "inventoryitems":
		return EntityInventoryItem, nil
	case "settings":
		return EntitySettings, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// Entity is the tagged union of all synchronized business records.
type Entity interface {
	Kind() EntityType
	EntityID() string
	Validate() error
}

// DecodeEntity разбирает JSON payload в конкретный тип сущности и валидирует его.
// Это единственная точка превращения сырых данных в типизированную сущность.
func DecodeEntity(kind EntityType, raw json.RawMessage) (Entity, error) {
	var e Entity
	switch kind {
	case EntityRecipe:
		e = &Recipe{}
	case EntityOrder:
		e = &Order{}
	case EntityCustomer:
		e = &Customer{}
	case EntityIngredient:
		e = &Ingredient{}
	case EntityInventoryItem:
		e = &InventoryItem{}
	case EntitySettings:
		e = &Settings{}
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidEntity, kind)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty %s payload", ErrInvalidEntity, kind)
	}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidEntity, kind, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// EncodeEntity validates e and returns its JSON form.
func EncodeEntity(e Entity) (json.RawMessage, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entity", ErrInvalidEntity)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", e.Kind(), err)
	}
	return data, nil
}

func invalid(kind EntityType, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidEntity, kind, fmt.Sprintf(format, args...))
}

// RecipeIngredient is one line of a recipe's bill of materials.
type RecipeIngredient struct {
	IngredientID string  `json:"ingredientId"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
}

// Recipe описывает рецепт с себестоимостью ингредиентов.
type Recipe struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category,omitempty"`
	YieldUnit   string             `json:"yieldUnit,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
	Steps       []string           `json:"steps,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	YieldQty    float64            `json:"yieldQty,omitempty"`
}

func (r *Recipe) Kind() EntityType { return EntityRecipe }
func (r *Recipe) EntityID() string { return r.ID }

// Validate checks required fields and quantities.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return invalid(EntityRecipe, "id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return invalid(EntityRecipe, "name is required")
	}
	if r.YieldQty < 0 {
		return invalid(EntityRecipe, "yield must not be negative (got %v)", r.YieldQty)
	}
	for i, ing := range r.Ingredients {
		if ing.IngredientID == "" {
			return invalid(EntityRecipe, "ingredient %d: ingredientId is required", i)
		}
		if ing.Quantity < 0 {
			return invalid(EntityRecipe, "ingredient %d: quantity must not be negative", i)
		}
	}
	return nil
}

// OrderStatus is the production state of an order.
type OrderStatus string

// Order statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderBaking    OrderStatus = "baking"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one recipe line on an order.
type OrderItem struct {
	RecipeID       string `json:"recipeId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Order представляет заказ клиента.
type Order struct {
	DueAt      *time.Time  `json:"dueAt,omitempty"`
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId,omitempty"`
	Status     OrderStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	Items      []OrderItem `json:"items,omitempty"`
	TotalCents int64       `json:"totalCents"`
}

func (o *Order) Kind() EntityType { return EntityOrder }
func (o *Order) EntityID() string { return o.ID }

// Validate checks status and line items.
func (o *Order) Validate() error {
	if o.ID == "" {
		return invalid(EntityOrder, "id is required")
	}
	switch o.Status {
	case OrderPending, OrderBaking, OrderReady, OrderDelivered, OrderCancelled:
	default:
		return invalid(EntityOrder, "unknown status %q", o.Status)
	}
	for i, item := range o.Items {
		if item.RecipeID == "" {
			return invalid(EntityOrder, "item %d: recipeId is required", i)
		}
		if item.Quantity <= 0 {
			return invalid(EntityOrder, "item %d: quantity must be positive", i)
		}
		if item.UnitPriceCents < 0 {
			return invalid(EntityOrder, "item %d: price must not be negative", i)
		}
	}
	if o.TotalCents < 0 {
		return invalid(EntityOrder, "total must not be negative")
	}
	return nil
}

// Customer is a bakery customer.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (c *Customer) Kind() EntityType { return EntityCustomer }
func (c *Customer) EntityID() string { return c.ID }

func (c *Customer) Validate() error {
	if c.ID == "" {
		return invalid(EntityCustomer, "id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid(EntityCustomer, "name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid(EntityCustomer, "malformed email %q", c.Email)
	}
	return nil
}

// Ingredient is a purchasable raw material with a unit cost.
type Ingredient struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Unit             string `json:"unit"`
	Supplier         string `json:"supplier,omitempty"`
	CostPerUnitCents int64  `json:"costPerUnitCents"`
}

func (i *Ingredient) Kind() EntityType { return EntityIngredient }
func (i *Ingredient) EntityID() string { return i.ID }

func (i *Ingredient) Validate() error {
	if i.ID == "" {
		return invalid(EntityIngredient, "id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return invalid(EntityIngredient, "name is required")
	}
	if i.Unit == "" {
		return invalid(EntityIngredient, "unit is required")
	}
	if i.CostPerUnitCents < 0 {
		return invalid(EntityIngredient, "cost must not be negative")
	}
	return nil
}

// InventoryItem tracks stock on hand for an ingredient.
type InventoryItem struct {
	ID           string  `json:"id"`
	IngredientID string  `json:"ingredientId,omitempty"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Location     string  `json:"location,omitempty"`
	Quantity     float64 `json:"quantity"`
	ReorderLevel float64 `json:"reorderLevel,omitempty"`
}

func (i *InventoryItem) Kind() EntityType { return EntityInventoryItem }
func (i *InventoryItem) EntityID() string { return i.ID }

func (i *InventoryItem) Validate() error {
	if i.ID == "" {
		return invalid(EntityInventoryItem, "id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return invalid(EntityInventoryItem, "name is required")
	}
	if i.Quantity < 0 {
		return invalid(EntityInventoryItem, "quantity must not be negative")
	}
	if i.ReorderLevel < 0 {
		return invalid(EntityInventoryItem, "reorder level must not be negative")
	}
	return nil
}

// NeedsReorder reports whether stock fell to or below the reorder level.
func (i *InventoryItem) NeedsReorder() bool {
	return i.ReorderLevel > 0 && i.Quantity <= i.ReorderLevel
}

// Settings хранит настройки бизнеса (один экземпляр на аккаунт).
type Settings struct {
	ID               string  `json:"id"`
	BusinessName     string  `json:"businessName,omitempty"`
	Currency         string  `json:"currency"`
	Timezone         string  `json:"timezone,omitempty"`
	TaxRatePercent   float64 `json:"taxRatePercent"`
	DefaultMarkupPct float64 `json:"defaultMarkupPct"`
}

func (s *Settings) Kind() EntityType { return EntitySettings }
func (s *Settings) EntityID() string { return s.ID }

func (s *Settings) Validate() error {
	if s.ID != SettingsID {
		return invalid(EntitySettings, "id must be %q (got %q)", SettingsID, s.ID)
	}
	if len(s.Currency) != 3 {
		return invalid(EntitySettings, "currency must be an ISO-4217 code (got %q)", s.Currency)
	}
	if s.TaxRatePercent < 0 || s.TaxRatePercent > 100 {
		return invalid(EntitySettings, "tax rate must be within 0..100")
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return invalid(EntitySettings, "unknown timezone %q", s.Timezone)
		}
	}
	return nil
}
