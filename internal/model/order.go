package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is one of the four delivery states of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Known reports whether s is one of the four recognized statuses.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents a delivery order. Customer fields are a snapshot taken at
// creation time and are not re-synced if the profile changes later. The
// pricing fields are likewise fixed at creation and never recomputed.
type Order struct {
	ID                 string          `json:"id"`
	CustomerEmail      string          `json:"customer_email"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	Quantity           int             `json:"quantity"`
	DeliveryAddress    string          `json:"delivery_address"`
	DeliveryDate       string          `json:"delivery_date"`
	DeliveryTime       string          `json:"delivery_time"`
	Notes              string          `json:"notes"`
	Status             OrderStatus     `json:"status"`
	CouponCode         *string         `json:"coupon_code"`
	DiscountPercentage int             `json:"discount_percentage"`
	OriginalTotal      decimal.Decimal `json:"original_total"`
	FinalTotal         decimal.Decimal `json:"final_total"`
	CreatedAt          time.Time       `json:"created_at"`
}

// CreateOrderRequest is the DTO for placing an order. CouponCode is optional;
// an invalid or unknown code never fails the order, it is just ignored.
type CreateOrderRequest struct {
	Quantity        *int   `json:"quantity" validate:"required,gte=1"`
	DeliveryAddress string `json:"delivery_address" validate:"required,notblank"`
	DeliveryDate    string `json:"delivery_date" validate:"required,notblank"`
	DeliveryTime    string `json:"delivery_time" validate:"required,notblank"`
	Notes           string `json:"notes"`
	CouponCode      string `json:"coupon_code"`
}

// UpdateOrderStatusRequest is the DTO for the admin status-update endpoint.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered cancelled"`
}

// AdminStats summarizes the whole store for administrators.
type AdminStats struct {
	TotalCustomers  int64 `json:"total_customers"`
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
}

// CustomerStats summarizes a single customer's orders.
type CustomerStats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
}
