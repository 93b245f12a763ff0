package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"whatsapp-order-bot/internal/model"
)

// Loader defines the interface for loading a restaurant menu document.
type Loader interface {
	// Load reads a JSON restaurant document and returns the validated restaurant.
	Load(ctx context.Context, path string) (*model.Restaurant, error)
}

// Default returns the built-in demo restaurant.
func Default() *model.Restaurant {
	return &model.Restaurant{
		Name:    "Demo Food Place",
		Address: "123 Main St",
		Menu: []model.MenuItem{
			{ID: 1, Name: "Parota", Price: 30},
			{ID: 2, Name: "Chicken Biryani", Price: 120},
			{ID: 3, Name: "Veg Fried Rice", Price: 90},
		},
	}
}

// Lookup returns the menu item with the given id.
func Lookup(r *model.Restaurant, id int) (model.MenuItem, bool) {
	for _, item := range r.Menu {
		if item.ID == id {
			return item, true
		}
	}
	return model.MenuItem{}, false
}

// Validate checks that menu ids are unique and every item is orderable.
func Validate(r *model.Restaurant) error {
	if r == nil {
		return fmt.Errorf("restaurant is nil")
	}
	if len(r.Menu) == 0 {
		return fmt.Errorf("menu must contain at least one item")
	}

	seen := make(map[int]struct{}, len(r.Menu))
	for i, item := range r.Menu {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("menu item %d: name is required", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("menu item %q: price must not be negative", item.Name)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("menu item %q: duplicate id %d", item.Name, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return nil
}

// decode parses and validates a restaurant document.
func decode(r io.Reader) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := json.NewDecoder(r).Decode(&restaurant); err != nil {
		return nil, fmt.Errorf("failed to decode restaurant document: %w", err)
	}
	if err := Validate(&restaurant); err != nil {
		return nil, fmt.Errorf("invalid restaurant document: %w", err)
	}
	return &restaurant, nil
}
