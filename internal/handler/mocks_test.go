package handler

import (
	"context"
	"net/http"

	"whatsapp-order-bot/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, msg model.InboundMessage) (*model.Order, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockMenuService is a mock implementation of service.MenuService.
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) GetRestaurant(ctx context.Context) *model.Restaurant {
	args := m.Called(ctx)
	return args.Get(0).(*model.Restaurant)
}

func (m *MockMenuService) GetMenuItem(ctx context.Context, id int) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

// denyAll rejects every request.
type denyAll struct{}

func (denyAll) IsTrusted(*http.Request) bool { return false }
