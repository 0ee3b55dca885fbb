// Package pricing holds the order money arithmetic: cart subtotals,
// coupon evaluation and the final order total. All amounts are VND minor
// units, so the math is exact integer arithmetic.
package pricing

import (
	"time"

	"sweetiegarden/internal/models"
)

// Reasons a supplied coupon code did not apply. An ineligible code never
// fails the order; it is reported back so the client can warn the
// customer while the order proceeds at full price.
const (
	CouponNotFound          = "not_found"
	CouponInactive          = "inactive"
	CouponNotStarted        = "not_started"
	CouponExpired           = "expired"
	CouponUsageLimitReached = "usage_limit_reached"
	CouponBelowMinOrder     = "below_min_order"
)

// CouponResult is the outcome of evaluating a coupon against a subtotal.
type CouponResult struct {
	Applied  bool
	CouponID int64
	Discount int64
	Reason   string
}

// Subtotal sums the cart lines at their effective prices.
func Subtotal(lines []models.CartLine) int64 {
	var total int64
	for i := range lines {
		total += lines[i].Subtotal()
	}
	return total
}

// EvaluateCoupon decides eligibility and computes the discount for an
// optional coupon. A nil coupon means the code was not found. The
// returned discount is always within [0, subtotal].
func EvaluateCoupon(c *models.Coupon, subtotal int64, now time.Time) CouponResult {
	if c == nil {
		return CouponResult{Reason: CouponNotFound}
	}
	if c.Status != models.CouponStatusActive {
		return CouponResult{Reason: CouponInactive}
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return CouponResult{Reason: CouponNotStarted}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return CouponResult{Reason: CouponExpired}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return CouponResult{Reason: CouponUsageLimitReached}
	}
	if subtotal < c.MinOrder {
		return CouponResult{Reason: CouponBelowMinOrder}
	}

	var discount int64
	if c.DiscountType == models.DiscountTypePercentage {
		discount = subtotal * c.DiscountValue / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	} else {
		discount = c.DiscountValue
	}

	// Discount can never exceed the subtotal
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	return CouponResult{Applied: true, CouponID: c.ID, Discount: discount}
}

// OrderTotal combines subtotal, discount and the flat shipping fee.
func OrderTotal(subtotal, discount, shippingFee int64) int64 {
	return subtotal - discount + shippingFee
}
