package service

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login email or password is wrong
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrCouponExists is returned when attempting to create a coupon whose code already exists
	ErrCouponExists = errors.New("coupon code already exists")

	// ErrCouponNotFound is returned when a coupon cannot be found on a mutating endpoint
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrOrderNotFound is returned when an order cannot be found
	ErrOrderNotFound = errors.New("order not found")

	// ErrForbidden is returned when a principal accesses a resource it does not own
	ErrForbidden = errors.New("not allowed to access this resource")

	// ErrTransitionNotAllowed is returned when the transition policy rejects a status change
	ErrTransitionNotAllowed = errors.New("status transition not allowed")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
