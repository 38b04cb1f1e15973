package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/pkg/database"
)

// CouponRedeemer defines the coupon data access needed by the pricing engine.
// Both methods run inside the caller's transaction so that looking up a
// coupon, consuming a use, and inserting the order commit or roll back as one
// unit.
type CouponRedeemer interface {
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	ConsumeUse(ctx context.Context, tx database.TxQuerier, code string) (bool, error)
}

// PriceQuote is the pricing snapshot stored on a new order.
type PriceQuote struct {
	OriginalTotal      decimal.Decimal
	FinalTotal         decimal.Decimal
	DiscountPercentage int
	CouponCode         *string
}

// PricingEngine computes order totals and consumes coupon uses.
type PricingEngine struct {
	coupons   CouponRedeemer
	unitPrice decimal.Decimal
}

// NewPricingEngine creates a PricingEngine with the given coupon access and
// fixed per-unit price.
func NewPricingEngine(coupons CouponRedeemer, unitPrice decimal.Decimal) *PricingEngine {
	return &PricingEngine{coupons: coupons, unitPrice: unitPrice}
}

// Quote computes the totals for an order of the given quantity, applying the
// coupon when one is supplied and usable. An unknown or unusable coupon never
// fails the quote; it degrades to the undiscounted total. When the coupon is
// applied, its use counter is consumed exactly once within tx, guarded so it
// can never exceed max_uses.
func (e *PricingEngine) Quote(ctx context.Context, tx database.TxQuerier, quantity int, couponCode, requesterEmail string, now time.Time) (PriceQuote, error) {
	original := e.unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	base := PriceQuote{OriginalTotal: original, FinalTotal: original}

	code := NormalizeCode(couponCode)
	if code == "" {
		return base, nil
	}

	coupon, err := e.coupons.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("look up coupon %s: %w", code, err)
	}

	result := ValidateCoupon(coupon, requesterEmail, now, Lenient)
	if !result.Valid {
		log.Debug().
			Str("coupon_code", code).
			Str("reason", string(result.Reason)).
			Msg("coupon not applied to order")
		return base, nil
	}

	consumed, err := e.coupons.ConsumeUse(ctx, tx, code)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("consume coupon %s: %w", code, err)
	}
	if !consumed {
		// Usage cap hit between validation and increment. The row is locked,
		// so this only happens if the stored counter was already at the cap.
		return base, nil
	}

	discount := decimal.NewFromInt(int64(result.DiscountPercentage))
	final := original.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))

	return PriceQuote{
		OriginalTotal:      original,
		FinalTotal:         final,
		DiscountPercentage: result.DiscountPercentage,
		CouponCode:         &code,
	}, nil
}
