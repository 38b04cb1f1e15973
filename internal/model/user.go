package model

import "time"

// User roles. Admins manage orders, customers, and coupons; customers place
// orders and redeem coupons.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an account record. PasswordHash never leaves the server.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the DTO for customer registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Phone    string `json:"phone" validate:"required,notblank,max=32"`
	Address  string `json:"address" validate:"required,notblank,max=512"`
}

// LoginRequest is the DTO for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// CustomerInfo is the admin-facing customer listing entry.
type CustomerInfo struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	TotalOrders int64     `json:"total_orders"`
	CreatedAt   time.Time `json:"created_at"`
}
