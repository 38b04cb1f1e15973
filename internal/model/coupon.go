package model

import "time"

// Coupon represents a discount code with activation, expiry, usage-cap, and
// optional per-customer scoping. A nil MaxUses means unlimited redemptions;
// a nil CustomerEmail means the coupon is redeemable by any account.
type Coupon struct {
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	ExpiryDate         time.Time `json:"expiry_date"`
	IsActive           bool      `json:"is_active"`
	MaxUses            *int      `json:"max_uses"`
	CurrentUses        int       `json:"current_uses"`
	CustomerEmail      *string   `json:"customer_email,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateCouponRequest is the DTO for creating a coupon.
type CreateCouponRequest struct {
	Code               string    `json:"code" validate:"required,notblank,min=3,max=20"`
	DiscountPercentage *int      `json:"discount_percentage" validate:"required,gte=1,lte=100"`
	ExpiryDate         time.Time `json:"expiry_date" validate:"required"`
	MaxUses            *int      `json:"max_uses" validate:"omitempty,gte=1"`
	CustomerEmail      *string   `json:"customer_email" validate:"omitempty,email"`
}

// ValidateCouponRequest is the DTO for the coupon validation endpoint.
type ValidateCouponRequest struct {
	Code string `json:"code" validate:"required,notblank,max=20"`
}

// CouponValidationResponse is the always-200 envelope returned by the
// validation endpoint.
type CouponValidationResponse struct {
	Valid              bool   `json:"valid"`
	DiscountPercentage int    `json:"discount_percentage"`
	Message            string `json:"message"`
}
