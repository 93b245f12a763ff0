package service

import (
	"context"
	"testing"

	"whatsapp-order-bot/internal/catalog"
	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_GetRestaurant(t *testing.T) {
	restaurant := catalog.Default()
	svc := NewMenuService(restaurant, zerolog.Nop())

	got := svc.GetRestaurant(context.Background())

	assert.Equal(t, restaurant, got)
	assert.Len(t, got.Menu, 3)
}

func TestMenuService_GetMenuItem(t *testing.T) {
	svc := NewMenuService(catalog.Default(), zerolog.Nop())

	tests := []struct {
		name        string
		id          int
		expectError error
		expected    string
	}{
		{name: "Existing item", id: 2, expected: "Chicken Biryani"},
		{name: "Unknown item", id: 42, expectError: model.ErrMenuItemNotFound},
		{name: "Zero id", id: 0, expectError: model.ErrMenuItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.GetMenuItem(context.Background(), tt.id)

			if tt.expectError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, item)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, item.Name)
		})
	}
}
