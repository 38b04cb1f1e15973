package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/model"
)

const (
	loyaltyMilestone       = 5
	loyaltyDiscountPercent = 20
	loyaltyMaxUses         = 1
	loyaltyValidity        = 30 * 24 * time.Hour
	loyaltyPrefixLen       = 5
)

// LoyaltyOrderCounter counts a customer's delivered orders.
type LoyaltyOrderCounter interface {
	CountByCustomerAndStatus(ctx context.Context, email string, status model.OrderStatus) (int64, error)
}

// LoyaltyCouponStore provides the coupon access needed to mint loyalty coupons.
type LoyaltyCouponStore interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	Insert(ctx context.Context, coupon *model.Coupon) error
}

// LoyaltyGenerator mints a personal coupon every time a customer reaches a
// delivered-order milestone (5, 10, 15, ...).
type LoyaltyGenerator struct {
	orders  LoyaltyOrderCounter
	coupons LoyaltyCouponStore
	now     func() time.Time
}

// NewLoyaltyGenerator creates a LoyaltyGenerator with the given stores.
func NewLoyaltyGenerator(orders LoyaltyOrderCounter, coupons LoyaltyCouponStore) *LoyaltyGenerator {
	return &LoyaltyGenerator{orders: orders, coupons: coupons, now: time.Now}
}

// LoyaltyCode derives the deterministic coupon code for a milestone: "LOYAL",
// the delivered count, and the first five uppercased characters of the email
// local part. The same milestone always yields the same code, which makes
// generation idempotent.
func LoyaltyCode(deliveredCount int64, email string) string {
	local, _, _ := strings.Cut(email, "@")
	if len(local) > loyaltyPrefixLen {
		local = local[:loyaltyPrefixLen]
	}
	return fmt.Sprintf("LOYAL%d_%s", deliveredCount, strings.ToUpper(local))
}

// MaybeGenerate inspects the customer's delivered-order count and mints a new
// coupon when the count is an exact multiple of the milestone. Returns the
// new coupon, or nil when no milestone was reached or the milestone coupon
// already exists. The unique index on the coupon code is the real idempotency
// guard; the pre-read just avoids log noise on the common repeat case.
func (g *LoyaltyGenerator) MaybeGenerate(ctx context.Context, customerEmail string) (*model.Coupon, error) {
	count, err := g.orders.CountByCustomerAndStatus(ctx, customerEmail, model.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("count delivered orders: %w", err)
	}
	if count == 0 || count%loyaltyMilestone != 0 {
		return nil, nil
	}

	code := LoyaltyCode(count, customerEmail)
	existing, err := g.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check loyalty coupon %s: %w", code, err)
	}
	if existing != nil {
		return nil, nil
	}

	now := g.now()
	maxUses := loyaltyMaxUses
	email := customerEmail
	coupon := &model.Coupon{
		Code:               code,
		DiscountPercentage: loyaltyDiscountPercent,
		ExpiryDate:         now.Add(loyaltyValidity),
		IsActive:           true,
		MaxUses:            &maxUses,
		CustomerEmail:      &email,
		CreatedAt:          now,
	}

	if err := g.coupons.Insert(ctx, coupon); err != nil {
		if errors.Is(err, ErrCouponExists) {
			// Lost a race with a concurrent milestone trigger; the coupon
			// is already issued.
			return nil, nil
		}
		return nil, fmt.Errorf("insert loyalty coupon %s: %w", code, err)
	}

	log.Info().
		Str("coupon_code", code).
		Str("customer_email", customerEmail).
		Int64("delivered_orders", count).
		Msg("loyalty coupon issued")

	return coupon, nil
}
