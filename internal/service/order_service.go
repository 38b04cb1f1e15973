package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/pkg/database"
)

// OrderRepositoryInterface defines the interface for order data access.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, email string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Pricer defines the pricing engine interface used during order creation.
type Pricer interface {
	Quote(ctx context.Context, tx database.TxQuerier, quantity int, couponCode, requesterEmail string, now time.Time) (PriceQuote, error)
}

// LoyaltyIssuer defines the loyalty generator interface triggered on
// delivered transitions.
type LoyaltyIssuer interface {
	MaybeGenerate(ctx context.Context, customerEmail string) (*model.Coupon, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderService owns order creation and status transitions.
type OrderService struct {
	pool    TxBeginner
	orders  OrderRepositoryInterface
	pricing Pricer
	loyalty LoyaltyIssuer
	policy  TransitionPolicy
	now     func() time.Time
}

// NewOrderService creates an OrderService with the given collaborators.
func NewOrderService(pool *pgxpool.Pool, orders OrderRepositoryInterface, pricing Pricer, loyalty LoyaltyIssuer, policy TransitionPolicy) *OrderService {
	return &OrderService{
		pool:    pool,
		orders:  orders,
		pricing: pricing,
		loyalty: loyalty,
		policy:  policy,
		now:     time.Now,
	}
}

// NewOrderServiceWithTxBeginner creates an OrderService with a custom
// TxBeginner. Primarily used for testing.
func NewOrderServiceWithTxBeginner(pool TxBeginner, orders OrderRepositoryInterface, pricing Pricer, loyalty LoyaltyIssuer, policy TransitionPolicy) *OrderService {
	return &OrderService{
		pool:    pool,
		orders:  orders,
		pricing: pricing,
		loyalty: loyalty,
		policy:  policy,
		now:     time.Now,
	}
}

// Create places a new order for the customer. Pricing (including coupon
// consumption) and the order insert run in one transaction, so either both
// apply or neither does. The customer identity fields are snapshotted onto
// the order.
func (s *OrderService) Create(ctx context.Context, customer *model.User, req *model.CreateOrderRequest) (*model.Order, error) {
	if customer == nil || req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	now := s.now()
	quote, err := s.pricing.Quote(ctx, tx, *req.Quantity, req.CouponCode, customer.Email, now)
	if err != nil {
		return nil, fmt.Errorf("price order: %w", err)
	}

	order := &model.Order{
		ID:                 uuid.NewString(),
		CustomerEmail:      customer.Email,
		CustomerName:       customer.Name,
		CustomerPhone:      customer.Phone,
		Quantity:           *req.Quantity,
		DeliveryAddress:    req.DeliveryAddress,
		DeliveryDate:       req.DeliveryDate,
		DeliveryTime:       req.DeliveryTime,
		Notes:              req.Notes,
		Status:             model.StatusPending,
		CouponCode:         quote.CouponCode,
		DiscountPercentage: quote.DiscountPercentage,
		OriginalTotal:      quote.OriginalTotal,
		FinalTotal:         quote.FinalTotal,
		CreatedAt:          now,
	}

	if err := s.orders.Insert(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return order, nil
}

// List returns the orders visible to the principal, newest first. Customers
// see only their own orders; admins see all.
func (s *OrderService) List(ctx context.Context, principal *model.User) ([]model.Order, error) {
	if principal.IsAdmin() {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByCustomer(ctx, principal.Email)
}

// Get returns a single order. Customers may only read their own orders.
func (s *OrderService) Get(ctx context.Context, principal *model.User, id string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !principal.IsAdmin() && order.CustomerEmail != principal.Email {
		return nil, ErrForbidden
	}
	return order, nil
}

// SetStatus updates an order's status and, when the new status is delivered,
// synchronously runs the loyalty generator for the order's customer before
// returning. A loyalty failure is logged but does not undo the status change.
func (s *OrderService) SetStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if current == nil {
		return nil, ErrOrderNotFound
	}
	if !s.policy.Allowed(current.Status, status) {
		return nil, ErrTransitionNotAllowed
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	if status == model.StatusDelivered {
		if _, err := s.loyalty.MaybeGenerate(ctx, updated.CustomerEmail); err != nil {
			log.Error().
				Err(err).
				Str("order_id", id).
				Str("customer_email", updated.CustomerEmail).
				Msg("loyalty coupon generation failed")
		}
	}
	return updated, nil
}

// Delete removes an order. Returns ErrOrderNotFound when no order has the id.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !deleted {
		return ErrOrderNotFound
	}
	return nil
}
