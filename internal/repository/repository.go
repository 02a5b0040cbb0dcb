package repository

import (
	"context"

	"food-delivery/internal/model"
)

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder atomically inserts an order row and all of its line items
	// in a single transaction and returns the storage-assigned order id.
	// On any insert failure the whole transaction is rolled back and no id
	// is returned.
	CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (int64, error)

	// GetUserOrders retrieves all orders for a user joined with the
	// restaurant name, newest first. A user with no orders yields an empty
	// slice, not an error.
	GetUserOrders(ctx context.Context, userID int64) ([]model.Order, error)

	// GetOrderItems retrieves the line items of an order joined with the
	// menu item name. Unknown order ids and orders without items both yield
	// an empty slice.
	GetOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	// UpdateStatus sets the status of an order. It reports whether a row
	// was updated.
	UpdateStatus(ctx context.Context, orderID int64, status string) (bool, error)
}

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create inserts a new user and returns the storage-assigned user id.
	Create(ctx context.Context, user *model.User) (int64, error)

	// GetByUsername retrieves a user by username, or nil when absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// RestaurantRepository defines the interface for restaurant catalogue reads.
type RestaurantRepository interface {
	// GetAll retrieves all restaurants ordered by name.
	GetAll(ctx context.Context) ([]model.Restaurant, error)

	// GetByID retrieves a single restaurant by its ID, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
}

// MenuRepository defines the interface for menu catalogue reads.
type MenuRepository interface {
	// GetByRestaurant retrieves the available menu items of a restaurant.
	GetByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.MenuItem, error)
}
