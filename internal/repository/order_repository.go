package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/pkg/database"
)

const orderColumns = `id, customer_email, customer_name, customer_phone, quantity,
	delivery_address, delivery_date, delivery_time, notes, status,
	coupon_code, discount_percentage, original_total, final_total, created_at`

// OrderRepository provides data access for orders using pgx.
type OrderRepository struct {
	pool PoolInterface
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates a new OrderRepository with a custom
// pool interface. This is primarily used for testing.
func NewOrderRepositoryWithPool(pool PoolInterface) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert inserts a new order within the caller's transaction, so the order
// and its coupon consumption commit together.
func (r *OrderRepository) Insert(ctx context.Context, tx database.TxQuerier, order *model.Order) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (id, customer_email, customer_name, customer_phone, quantity,
			delivery_address, delivery_date, delivery_time, notes, status,
			coupon_code, discount_percentage, original_total, final_total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.CustomerEmail, order.CustomerName, order.CustomerPhone, order.Quantity,
		order.DeliveryAddress, order.DeliveryDate, order.DeliveryTime, order.Notes, order.Status,
		order.CouponCode, order.DiscountPercentage, order.OriginalTotal, order.FinalTotal, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by id.
// Returns nil, nil if the order is not found (service layer handles this).
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id %s: %w", id, err)
	}
	return order, nil
}

// ListAll retrieves every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListByCustomer retrieves a customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, email string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_email = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", email, err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// UpdateStatus sets an order's status and returns the updated record.
// Returns nil, nil if no order has the id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE id = $1 RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update status for order %s: %w", id, err)
	}
	return order, nil
}

// Delete removes an order by id. Returns whether a row was deleted.
func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete order %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountAll counts every order.
func (r *OrderRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders`)
}

// CountByStatus counts orders with the given status.
func (r *OrderRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status)
}

// CountByCustomer counts a customer's orders.
func (r *OrderRepository) CountByCustomer(ctx context.Context, email string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE customer_email = $1`, email)
}

// CountByCustomerAndStatus counts a customer's orders with the given status.
// The loyalty generator uses this with status delivered.
func (r *OrderRepository) CountByCustomerAndStatus(ctx context.Context, email string, status model.OrderStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE customer_email = $1 AND status = $2`, email, status)
}

func (r *OrderRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerEmail,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.Quantity,
		&o.DeliveryAddress,
		&o.DeliveryDate,
		&o.DeliveryTime,
		&o.Notes,
		&o.Status,
		&o.CouponCode,
		&o.DiscountPercentage,
		&o.OriginalTotal,
		&o.FinalTotal,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
