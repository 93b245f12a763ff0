package catalog

import (
	"testing"

	"whatsapp-order-bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	restaurant := Default()

	require.NoError(t, Validate(restaurant))
	assert.Equal(t, "Demo Food Place", restaurant.Name)
	require.Len(t, restaurant.Menu, 3)
	assert.Equal(t, "Parota", restaurant.Menu[0].Name)
	assert.Equal(t, 120.0, restaurant.Menu[1].Price)
}

func TestLookup(t *testing.T) {
	restaurant := Default()

	item, ok := Lookup(restaurant, 2)
	require.True(t, ok)
	assert.Equal(t, "Chicken Biryani", item.Name)

	_, ok = Lookup(restaurant, 99)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		restaurant *model.Restaurant
		errorMsg   string
	}{
		{
			name:       "Nil restaurant",
			restaurant: nil,
			errorMsg:   "restaurant is nil",
		},
		{
			name:       "Empty menu",
			restaurant: &model.Restaurant{Name: "Empty"},
			errorMsg:   "at least one item",
		},
		{
			name: "Blank name",
			restaurant: &model.Restaurant{Menu: []model.MenuItem{
				{ID: 1, Name: "  ", Price: 10},
			}},
			errorMsg: "name is required",
		},
		{
			name: "Negative price",
			restaurant: &model.Restaurant{Menu: []model.MenuItem{
				{ID: 1, Name: "Dosa", Price: -1},
			}},
			errorMsg: "must not be negative",
		},
		{
			name: "Duplicate id",
			restaurant: &model.Restaurant{Menu: []model.MenuItem{
				{ID: 1, Name: "Dosa", Price: 40},
				{ID: 1, Name: "Idli", Price: 20},
			}},
			errorMsg: "duplicate id 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.restaurant)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
