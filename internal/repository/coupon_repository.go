package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/internal/service"
	"github.com/acqua-delivery/backend/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const couponColumns = `code, discount_percentage, expiry_date, is_active, max_uses, current_uses, customer_email, created_at`

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom
// pool interface. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon.
// Returns service.ErrCouponExists if the code is already taken.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (code, discount_percentage, expiry_date, is_active, max_uses, customer_email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		coupon.Code, coupon.DiscountPercentage, coupon.ExpiryDate, coupon.IsActive,
		coupon.MaxUses, coupon.CustomerEmail, coupon.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its normalized code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return coupon, nil
}

// GetByCodeForUpdate retrieves a coupon with a row lock (SELECT FOR UPDATE).
// The lock serializes concurrent redemptions of the same code until the
// transaction completes. Returns nil, nil when the code is unknown, matching
// the lenient pricing path.
func (r *CouponRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1 FOR UPDATE`

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon for update %s: %w", code, err)
	}
	return coupon, nil
}

// ConsumeUse increments current_uses by 1, but only while the counter is
// still below max_uses. Returns whether a use was consumed. The guard makes
// redemption safe even without the row lock: the counter can never pass the
// cap.
func (r *CouponRepository) ConsumeUse(ctx context.Context, tx database.TxQuerier, code string) (bool, error) {
	query := `UPDATE coupons SET current_uses = current_uses + 1
		WHERE code = $1 AND (max_uses IS NULL OR current_uses < max_uses)`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("consume use for %s: %w", code, err)
	}
	return tag.RowsAffected() == 1, nil
}

// List retrieves every coupon, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	return collectCoupons(rows)
}

// ListActiveForCustomer retrieves the personal coupons a customer can still
// redeem: scoped to their email, active, unexpired, and below the usage cap.
func (r *CouponRepository) ListActiveForCustomer(ctx context.Context, email string, now time.Time) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons
		WHERE customer_email = $1
		  AND is_active
		  AND expiry_date > $2
		  AND (max_uses IS NULL OR current_uses < max_uses)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, email, now)
	if err != nil {
		return nil, fmt.Errorf("list coupons for %s: %w", email, err)
	}
	defer rows.Close()

	return collectCoupons(rows)
}

// Delete removes a coupon by code. Returns whether a row was deleted.
func (r *CouponRepository) Delete(ctx context.Context, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		return false, fmt.Errorf("delete coupon %s: %w", code, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.Code,
		&c.DiscountPercentage,
		&c.ExpiryDate,
		&c.IsActive,
		&c.MaxUses,
		&c.CurrentUses,
		&c.CustomerEmail,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCoupons(rows pgx.Rows) ([]model.Coupon, error) {
	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}
