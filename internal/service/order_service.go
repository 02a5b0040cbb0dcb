package service

import (
	"context"
	"fmt"
	"math"

	"food-delivery/internal/model"
	"food-delivery/internal/repository"

	"github.com/rs/zerolog"
)

// totalTolerance absorbs float rounding when comparing the submitted total
// against the line-item sum.
const totalTolerance = 0.005

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the request and persists the order atomically. The
// submitted total is trusted: a mismatch against the line-item sum is logged
// but does not fail the order, matching the historical contract that callers
// compute the total.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	var itemSum float64
	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			ItemPrice: item.Price,
		}
		itemSum += float64(item.Quantity) * item.Price
	}

	if math.Abs(itemSum-req.TotalAmount) > totalTolerance {
		s.logger.Warn().
			Int64("user_id", req.UserID).
			Float64("total_amount", req.TotalAmount).
			Float64("item_sum", itemSum).
			Msg("submitted total disagrees with line-item sum")
	}

	order := &model.Order{
		UserID:          req.UserID,
		RestaurantID:    req.RestaurantID,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   paymentMethod,
	}

	orderID, err := s.orderRepo.CreateOrder(ctx, order, items)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", req.UserID).Msg("failed to place order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	for i := range items {
		items[i].OrderID = orderID
	}

	s.logger.Info().
		Int64("order_id", orderID).
		Int64("user_id", req.UserID).
		Int("item_count", len(items)).
		Msg("order placed")

	return &model.OrderResponse{
		OrderID: orderID,
		Items:   items,
	}, nil
}

// UserOrders retrieves a user's orders, newest first.
func (s *orderService) UserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.GetUserOrders(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user orders")
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}
	return orders, nil
}

// OrderItems retrieves the line items of an order.
func (s *orderService) OrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to get order items")
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return items, nil
}

// UpdateStatus moves an order to a new status.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if !model.ValidStatuses[status] {
		return model.ErrInvalidStatus
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to update status")
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !updated {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Int64("order_id", orderID).Str("status", status).Msg("order status updated")
	return nil
}

// validateOrderRequest validates the order request. Every failure is a
// domain error so handlers map it to a status without inspecting text.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Order request is required")
	}

	if req.UserID <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "User ID is required")
	}

	if req.RestaurantID <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Restaurant ID is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	if req.DeliveryAddress == "" {
		return model.ErrMissingAddress
	}

	if req.TotalAmount < 0 {
		return model.ErrInvalidPrice
	}

	for i, item := range req.Items {
		if item.ItemID <= 0 {
			return model.NewDomainError(model.ErrCodeMissingField,
				fmt.Sprintf("Item %d: item ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int64("item_id", item.ItemID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if item.Price < 0 {
			return model.ErrInvalidPrice
		}
	}

	return nil
}
