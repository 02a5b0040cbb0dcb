package service

import (
	"context"

	"food-delivery/internal/model"
)

// OrderService defines operations for placing and tracking orders.
type OrderService interface {
	// PlaceOrder validates the request and atomically persists the order
	// with all of its line items.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// UserOrders retrieves a user's orders, newest first.
	UserOrders(ctx context.Context, userID int64) ([]model.Order, error)

	// OrderItems retrieves the line items of an order.
	OrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// MenuService defines catalogue read operations.
type MenuService interface {
	// Restaurants retrieves all restaurants.
	Restaurants(ctx context.Context) ([]model.Restaurant, error)

	// Restaurant retrieves a single restaurant, or nil when absent.
	Restaurant(ctx context.Context, id int64) (*model.Restaurant, error)

	// Menu retrieves the available menu items of a restaurant.
	Menu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error)
}

// AuthService defines user registration and login.
type AuthService interface {
	// Register creates a new user account with a hashed password.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and returns the matching user.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
}
