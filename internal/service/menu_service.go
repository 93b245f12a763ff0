package service

import (
	"context"

	"whatsapp-order-bot/internal/catalog"
	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
)

// menuService implements MenuService over a fixed restaurant.
type menuService struct {
	restaurant *model.Restaurant
	logger     zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(restaurant *model.Restaurant, logger zerolog.Logger) MenuService {
	return &menuService{
		restaurant: restaurant,
		logger:     logger.With().Str("service", "menu").Logger(),
	}
}

// GetRestaurant returns the restaurant.
func (s *menuService) GetRestaurant(ctx context.Context) *model.Restaurant {
	return s.restaurant
}

// GetMenuItem retrieves a single menu item by ID.
func (s *menuService) GetMenuItem(ctx context.Context, id int) (*model.MenuItem, error) {
	item, ok := catalog.Lookup(s.restaurant, id)
	if !ok {
		s.logger.Debug().Int("item_id", id).Msg("menu item not found")
		return nil, model.ErrMenuItemNotFound
	}
	return &item, nil
}
