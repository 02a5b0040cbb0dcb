package repository

import (
	"context"
	"errors"
	"fmt"

	"food-delivery/internal/db"
	"food-delivery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
// Single-statement reads and writes go through the executor; only the
// multi-statement order creation talks to the pool directly, because it needs
// commit/rollback control over one transaction.
type orderRepository struct {
	pool   *pgxpool.Pool
	exec   *db.Executor
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, exec *db.Executor, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		exec:   exec,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrder inserts the order row and all line items in one transaction.
// A failure on any line item rolls back the order row as well, so a partial
// order is never visible to readers on other connections. Rollback errors are
// logged but the original failure is what the caller sees.
func (r *orderRepository) CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback order transaction")
			}
		}
	}()

	orderQuery := `
		INSERT INTO orders (user_id, restaurant_id, total_amount, delivery_address, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id
	`

	var orderID int64
	err = tx.QueryRow(ctx, orderQuery,
		order.UserID,
		order.RestaurantID,
		order.TotalAmount,
		order.DeliveryAddress,
		order.PaymentMethod,
		model.StatusPending,
	).Scan(&orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", order.UserID).
			Int64("restaurant_id", order.RestaurantID).
			Msg("failed to insert order")
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, item_id, quantity, item_price)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(itemQuery, orderID, item.ItemID, item.Quantity, item.ItemPrice)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range items {
		if _, execErr := results.Exec(); execErr != nil {
			// Close the batch before the deferred rollback runs.
			_ = results.Close()
			err = execErr
			r.logger.Error().
				Err(err).
				Int64("order_id", orderID).
				Int64("item_id", items[i].ItemID).
				Msg("failed to insert order item, rolling back order")
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if err = results.Close(); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to close item batch")
		return 0, fmt.Errorf("failed to insert order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to commit order transaction")
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	r.logger.Info().
		Int64("order_id", orderID).
		Int64("user_id", order.UserID).
		Int("item_count", len(items)).
		Msg("order created")

	return orderID, nil
}

// GetUserOrders retrieves all orders for a user with the restaurant name,
// newest first.
func (r *orderRepository) GetUserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT o.order_id, o.user_id, o.restaurant_id, o.total_amount,
		       o.delivery_address, o.payment_method, o.status, o.order_date,
		       r.name AS restaurant_name
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.restaurant_id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC
	`

	result, err := r.exec.Execute(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}

	orders := make([]model.Order, 0, len(result.Rows))
	for _, row := range result.Rows {
		orders = append(orders, model.Order{
			OrderID:         row.Int64("order_id"),
			UserID:          row.Int64("user_id"),
			RestaurantID:    row.Int64("restaurant_id"),
			TotalAmount:     row.Float64("total_amount"),
			DeliveryAddress: row.String("delivery_address"),
			PaymentMethod:   row.String("payment_method"),
			Status:          row.String("status"),
			OrderDate:       row.Time("order_date"),
			RestaurantName:  row.String("restaurant_name"),
		})
	}

	return orders, nil
}

// GetOrderItems retrieves the line items of an order with the menu item name.
// Unknown order ids and empty orders are indistinguishable: both yield an
// empty slice.
func (r *orderRepository) GetOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT oi.order_id, oi.item_id, oi.quantity, oi.item_price,
		       mi.name AS item_name
		FROM order_items oi
		JOIN menu_items mi ON oi.item_id = mi.item_id
		WHERE oi.order_id = $1
	`

	result, err := r.exec.Execute(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	items := make([]model.OrderItem, 0, len(result.Rows))
	for _, row := range result.Rows {
		items = append(items, model.OrderItem{
			OrderID:   row.Int64("order_id"),
			ItemID:    row.Int64("item_id"),
			Quantity:  row.Int("quantity"),
			ItemPrice: row.Float64("item_price"),
			ItemName:  row.String("item_name"),
		})
	}

	return items, nil
}

// UpdateStatus sets the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) (bool, error) {
	query := `UPDATE orders SET status = $1 WHERE order_id = $2`

	result, err := r.exec.Execute(ctx, query, status, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", orderID).
			Str("status", status).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug().Int64("order_id", orderID).Msg("status update matched no order")
		return false, nil
	}

	return true, nil
}
