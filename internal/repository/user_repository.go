package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/internal/service"
)

// UserRepository provides data access for accounts using pgx.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool
// interface. This is primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

// Insert inserts a new account.
// Returns service.ErrEmailTaken if the email already has an account.
func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (email, password_hash, name, phone, address, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.Email, user.PasswordHash, user.Name, user.Phone, user.Address, user.Role, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email.
// Returns nil, nil if the account is not found (service layer handles this).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT email, password_hash, name, phone, address, role, created_at
		FROM users WHERE email = $1`

	var u model.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&u.Address,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email %s: %w", email, err)
	}
	return &u, nil
}

// ListCustomers retrieves every customer account with its total order count,
// oldest first.
func (r *UserRepository) ListCustomers(ctx context.Context) ([]model.CustomerInfo, error) {
	query := `SELECT u.email, u.name, u.phone, u.address, u.created_at, COUNT(o.id)
		FROM users u
		LEFT JOIN orders o ON o.customer_email = u.email
		WHERE u.role = $1
		GROUP BY u.email, u.name, u.phone, u.address, u.created_at
		ORDER BY u.created_at`

	rows, err := r.pool.Query(ctx, query, model.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.CustomerInfo{}
	for rows.Next() {
		var c model.CustomerInfo
		if err := rows.Scan(&c.Email, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.TotalOrders); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

// CountCustomers counts accounts with the customer role.
func (r *UserRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, model.RoleCustomer).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
