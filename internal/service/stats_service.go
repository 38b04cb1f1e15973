package service

import (
	"context"
	"fmt"

	"github.com/acqua-delivery/backend/internal/model"
)

// CustomerLister provides the user queries needed by the stats service.
type CustomerLister interface {
	ListCustomers(ctx context.Context) ([]model.CustomerInfo, error)
	CountCustomers(ctx context.Context) (int64, error)
}

// OrderCounter provides the order counts needed by the stats service.
type OrderCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
	CountByCustomer(ctx context.Context, email string) (int64, error)
	CountByCustomerAndStatus(ctx context.Context, email string, status model.OrderStatus) (int64, error)
}

// StatsService serves the customers listing and the dashboard counters.
type StatsService struct {
	users  CustomerLister
	orders OrderCounter
}

// NewStatsService creates a StatsService with the given stores.
func NewStatsService(users CustomerLister, orders OrderCounter) *StatsService {
	return &StatsService{users: users, orders: orders}
}

// Customers returns every customer account with its total order count.
func (s *StatsService) Customers(ctx context.Context) ([]model.CustomerInfo, error) {
	return s.users.ListCustomers(ctx)
}

// AdminStats returns store-wide counters for the admin dashboard.
func (s *StatsService) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	customers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	orders, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pending, err := s.orders.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}
	delivered, err := s.orders.CountByStatus(ctx, model.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("count delivered orders: %w", err)
	}
	return &model.AdminStats{
		TotalCustomers:  customers,
		TotalOrders:     orders,
		PendingOrders:   pending,
		DeliveredOrders: delivered,
	}, nil
}

// CustomerStats returns the counters for a single customer's dashboard.
func (s *StatsService) CustomerStats(ctx context.Context, email string) (*model.CustomerStats, error) {
	total, err := s.orders.CountByCustomer(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pending, err := s.orders.CountByCustomerAndStatus(ctx, email, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}
	return &model.CustomerStats{TotalOrders: total, PendingOrders: pending}, nil
}
