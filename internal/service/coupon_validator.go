package service

import (
	"strings"
	"time"

	"github.com/acqua-delivery/backend/internal/model"
)

// ValidationReason explains why a coupon was accepted or rejected.
type ValidationReason string

const (
	ReasonOK            ValidationReason = "OK"
	ReasonNotFound      ValidationReason = "NOT_FOUND"
	ReasonInactive      ValidationReason = "INACTIVE"
	ReasonExpired       ValidationReason = "EXPIRED"
	ReasonExhausted     ValidationReason = "EXHAUSTED"
	ReasonNotForAccount ValidationReason = "NOT_FOR_ACCOUNT"
)

// Message returns the human-readable message for the reason.
func (r ValidationReason) Message() string {
	switch r {
	case ReasonOK:
		return "coupon applied successfully"
	case ReasonNotFound:
		return "coupon not found"
	case ReasonInactive:
		return "coupon is not active"
	case ReasonExpired:
		return "coupon has expired"
	case ReasonExhausted:
		return "coupon has reached its usage limit"
	case ReasonNotForAccount:
		return "coupon is not valid for this account"
	}
	return "invalid coupon"
}

// Strictness selects which subset of checks applies.
type Strictness int

const (
	// Strict runs every check, including per-account scoping. Used by the
	// validation endpoint, where the caller receives the failure reason.
	Strict Strictness = iota

	// Lenient checks only activation, expiry, and exhaustion. Used by the
	// order pricing path, which silently skips an unusable coupon instead
	// of reporting it.
	Lenient
)

// ValidationResult is the outcome of validating a coupon.
type ValidationResult struct {
	Valid              bool
	DiscountPercentage int
	Reason             ValidationReason
}

// ValidateCoupon decides whether a coupon is redeemable by requesterEmail at
// the given instant. Checks run in a fixed order and short-circuit on the
// first failure, so a coupon that is both inactive and expired reports
// INACTIVE. Expiry is exclusive of the boundary: a coupon expiring exactly
// now is already expired.
func ValidateCoupon(c *model.Coupon, requesterEmail string, now time.Time, mode Strictness) ValidationResult {
	if c == nil {
		return ValidationResult{Reason: ReasonNotFound}
	}
	if !c.IsActive {
		return ValidationResult{Reason: ReasonInactive}
	}
	if !c.ExpiryDate.After(now) {
		return ValidationResult{Reason: ReasonExpired}
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return ValidationResult{Reason: ReasonExhausted}
	}
	if mode == Strict && c.CustomerEmail != nil && *c.CustomerEmail != requesterEmail {
		return ValidationResult{Reason: ReasonNotForAccount}
	}
	return ValidationResult{
		Valid:              true,
		DiscountPercentage: c.DiscountPercentage,
		Reason:             ReasonOK,
	}
}

// NormalizeCode canonicalizes a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
