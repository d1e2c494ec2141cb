package data

import (
	"context"
	"fmt"

	"github.com/iudanet/bakesync/internal/models"
)

func getTyped[T models.Entity](ctx context.Context, s *Service, kind models.EntityType, id string) (T, error) {
	var zero T
	e, err := s.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	typed, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected %s entity type %T", kind, e)
	}
	return typed, nil
}

func listTyped[T models.Entity](ctx context.Context, s *Service, kind models.EntityType) ([]T, error) {
	all, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(all))
	for _, e := range all {
		if typed, ok := e.(T); ok {
			result = append(result, typed)
		}
	}
	return result, nil
}

// AddRecipe adds a new recipe, generating an id if it is empty
func (s *Service) AddRecipe(ctx context.Context, r *models.Recipe) error {
	if r.ID == "" {
		r.ID = newID()
	}
	return s.Add(ctx, r)
}

// UpdateRecipe replaces an existing recipe
func (s *Service) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	return s.Update(ctx, r)
}

// DeleteRecipe deletes a recipe
func (s *Service) DeleteRecipe(ctx context.Context, id string) error {
	return s.Delete(ctx, models.EntityRecipe, id)
}

// GetRecipe returns a recipe by id
func (s *Service) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	return getTyped[*models.Recipe](ctx, s, models.EntityRecipe, id)
}

// ListRecipes returns all recipes
func (s *Service) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return listTyped[*models.Recipe](ctx, s, models.EntityRecipe)
}

// AddOrder adds a new order, generating an id if it is empty
func (s *Service) AddOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = newID()
	}
	return s.Add(ctx, o)
}

// UpdateOrder replaces an existing order
func (s *Service) UpdateOrder(ctx context.Context, o *models.Order) error {
	return s.Update(ctx, o)
}

// DeleteOrder deletes an order
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.Delete(ctx, models.EntityOrder, id)
}

// GetOrder returns an order by id
func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return getTyped[*models.Order](ctx, s, models.EntityOrder, id)
}

// ListOrders returns all orders
func (s *Service) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return listTyped[*models.Order](ctx, s, models.EntityOrder)
}

// AddCustomer adds a new customer, generating an id if it is empty
func (s *Service) AddCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return s.Add(ctx, c)
}

// UpdateCustomer replaces an existing customer
func (s *Service) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	return s.Update(ctx, c)
}

// DeleteCustomer deletes a customer
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.Delete(ctx, models.EntityCustomer, id)
}

// GetCustomer returns a customer by id
func (s *Service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return getTyped[*models.Customer](ctx, s, models.EntityCustomer, id)
}

// ListCustomers returns all customers
func (s *Service) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return listTyped[*models.Customer](ctx, s, models.EntityCustomer)
}

// AddIngredient adds a new ingredient, generating an id if it is empty
func (s *Service) AddIngredient(ctx context.Context, i *models.Ingredient) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return s.Add(ctx, i)
}

// UpdateIngredient replaces an existing ingredient
func (s *Service) UpdateIngredient(ctx context.Context, i *models.Ingredient) error {
	return s.Update(ctx, i)
}

// DeleteIngredient deletes an ingredient
func (s *Service) DeleteIngredient(ctx context.Context, id string) error {
	return s.Delete(ctx, models.EntityIngredient, id)
}

// GetIngredient returns an ingredient by id
func (s *Service) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	return getTyped[*models.Ingredient](ctx, s, models.EntityIngredient, id)
}

// ListIngredients returns all ingredients
func (s *Service) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	return listTyped[*models.Ingredient](ctx, s, models.EntityIngredient)
}

// AddInventoryItem adds a new inventory item, generating an id if it is empty
func (s *Service) AddInventoryItem(ctx context.Context, i *models.InventoryItem) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return s.Add(ctx, i)
}

// UpdateInventoryItem replaces an existing inventory item
func (s *Service) UpdateInventoryItem(ctx context.Context, i *models.InventoryItem) error {
	return s.Update(ctx, i)
}

// DeleteInventoryItem deletes an inventory item
func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	return s.Delete(ctx, models.EntityInventoryItem, id)
}

// GetInventoryItem returns an inventory item by id
func (s *Service) GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	return getTyped[*models.InventoryItem](ctx, s, models.EntityInventoryItem, id)
}

// ListInventoryItems returns all inventory items
func (s *Service) ListInventoryItems(ctx context.Context) ([]*models.InventoryItem, error) {
	return listTyped[*models.InventoryItem](ctx, s, models.EntityInventoryItem)
}

// LowStock returns inventory items at or below their reorder level
func (s *Service) LowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	items, err := s.ListInventoryItems(ctx)
	if err != nil {
		return nil, err
	}
	low := items[:0]
	for _, item := range items {
		if item.NeedsReorder() {
			low = append(low, item)
		}
	}
	return low, nil
}

// GetSettings returns the business settings (ErrNotFound before the first save)
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	return getTyped[*models.Settings](ctx, s, models.EntitySettings, models.SettingsID)
}

// SaveSettings creates or replaces the singleton settings entity
func (s *Service) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	return s.save(ctx, settings, nil)
}
