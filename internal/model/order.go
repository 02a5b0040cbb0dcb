package model

import "time"

// Order statuses. An order starts as pending and is moved forward by the
// restaurant/delivery flow; this service only records the transitions.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// DefaultPaymentMethod is applied when an order request omits the payment method.
const DefaultPaymentMethod = "cash"

// ValidStatuses lists the accepted order status values.
var ValidStatuses = map[string]bool{
	StatusPending:        true,
	StatusConfirmed:      true,
	StatusPreparing:      true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
}

// Order represents a customer order. RestaurantName is populated on read
// paths that join against the restaurants table and is empty otherwise.
type Order struct {
	OrderID         int64     `json:"orderId" db:"order_id"`
	UserID          int64     `json:"userId" db:"user_id"`
	RestaurantID    int64     `json:"restaurantId" db:"restaurant_id"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	DeliveryAddress string    `json:"deliveryAddress" db:"delivery_address"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	Status          string    `json:"status" db:"status"`
	OrderDate       time.Time `json:"orderDate" db:"order_date"`
	RestaurantName  string    `json:"restaurantName,omitempty" db:"restaurant_name"`
}

// OrderItem represents a line item in an order. ItemPrice is a snapshot of
// the menu price at order time so historical orders survive catalogue price
// changes. ItemName is populated on read paths that join against menu_items.
type OrderItem struct {
	OrderID   int64   `json:"orderId" db:"order_id"`
	ItemID    int64   `json:"itemId" db:"item_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	ItemPrice float64 `json:"itemPrice" db:"item_price"`
	ItemName  string  `json:"itemName,omitempty" db:"item_name"`
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	UserID          int64              `json:"userId"`
	RestaurantID    int64              `json:"restaurantId"`
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	DeliveryAddress string             `json:"deliveryAddress"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
}

// OrderItemRequest represents a single line item in an order request.
type OrderItemRequest struct {
	ItemID   int64   `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderResponse represents the response payload for a placed order.
type OrderResponse struct {
	OrderID int64       `json:"orderId"`
	Items   []OrderItem `json:"items"`
}

// StatusUpdateRequest represents the request payload for an order status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
