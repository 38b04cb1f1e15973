package service

import (
	"context"
	"fmt"
	"time"

	"github.com/acqua-delivery/backend/internal/model"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Delete(ctx context.Context, code string) (bool, error)
	ListActiveForCustomer(ctx context.Context, email string, now time.Time) ([]model.Coupon, error)
}

// CouponService provides admin coupon management and the read-only
// validation endpoint.
type CouponService struct {
	coupons CouponRepositoryInterface
	now     func() time.Time
}

// NewCouponService creates a CouponService with the given repository.
func NewCouponService(coupons CouponRepositoryInterface) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

// Create creates a new coupon. The code is uppercased before storage.
// Returns ErrCouponExists when the code is already taken.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil || req.DiscountPercentage == nil {
		return nil, ErrInvalidRequest
	}

	coupon := &model.Coupon{
		Code:               NormalizeCode(req.Code),
		DiscountPercentage: *req.DiscountPercentage,
		ExpiryDate:         req.ExpiryDate,
		IsActive:           true,
		MaxUses:            req.MaxUses,
		CustomerEmail:      req.CustomerEmail,
		CreatedAt:          s.now(),
	}
	if err := s.coupons.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// List returns every coupon, for the admin overview.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	return s.coupons.List(ctx)
}

// Delete removes a coupon by code. Returns ErrCouponNotFound when absent.
func (s *CouponService) Delete(ctx context.Context, code string) error {
	deleted, err := s.coupons.Delete(ctx, NormalizeCode(code))
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if !deleted {
		return ErrCouponNotFound
	}
	return nil
}

// Validate checks a coupon against every rule for the requesting account.
// The result always carries a message; lookup misses are reported as an
// invalid result, never as an error.
func (s *CouponService) Validate(ctx context.Context, code, requesterEmail string) (*model.CouponValidationResponse, error) {
	coupon, err := s.coupons.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}

	result := ValidateCoupon(coupon, requesterEmail, s.now(), Strict)
	return &model.CouponValidationResponse{
		Valid:              result.Valid,
		DiscountPercentage: result.DiscountPercentage,
		Message:            result.Reason.Message(),
	}, nil
}

// ListMine returns the customer's personal coupons that are still active,
// unexpired, and below their usage cap.
func (s *CouponService) ListMine(ctx context.Context, email string) ([]model.Coupon, error) {
	return s.coupons.ListActiveForCustomer(ctx, email, s.now())
}
