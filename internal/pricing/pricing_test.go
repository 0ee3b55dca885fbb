package pricing

import (
	"testing"
	"time"

	"sweetiegarden/internal/models"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func testCart() []models.CartLine {
	return []models.CartLine{
		{ProductID: 1, ProductName: "Cake A", Price: 200000, SalePrice: int64Ptr(150000), Quantity: 2},
	}
}

func TestSubtotalPrefersSalePrice(t *testing.T) {
	subtotal := Subtotal(testCart())
	assert.Equal(t, int64(300000), subtotal)
}

func TestOrderTotalWithoutCoupon(t *testing.T) {
	subtotal := Subtotal(testCart())
	total := OrderTotal(subtotal, 0, 30000)
	assert.Equal(t, int64(330000), total)
}

func TestPercentageCouponCappedAtMaxDiscount(t *testing.T) {
	coupon := &models.Coupon{
		ID:            1,
		Code:          "SWEET10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		MinOrder:      100000,
		MaxDiscount:   int64Ptr(20000),
		Status:        models.CouponStatusActive,
	}

	subtotal := Subtotal(testCart())
	res := EvaluateCoupon(coupon, subtotal, time.Now())

	assert.True(t, res.Applied)
	assert.Equal(t, int64(20000), res.Discount) // min(30000, 20000)
	assert.Equal(t, int64(310000), OrderTotal(subtotal, res.Discount, 30000))
}

func TestPercentageCouponWithoutCap(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		Status:        models.CouponStatusActive,
	}

	res := EvaluateCoupon(coupon, 300000, time.Now())
	assert.True(t, res.Applied)
	assert.Equal(t, int64(30000), res.Discount)
}

func TestFixedCouponCappedAtSubtotal(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 500000,
		Status:        models.CouponStatusActive,
	}

	res := EvaluateCoupon(coupon, 300000, time.Now())
	assert.True(t, res.Applied)
	assert.Equal(t, int64(300000), res.Discount)

	// Total never drops below the shipping fee
	assert.Equal(t, int64(30000), OrderTotal(300000, res.Discount, 30000))
}

func TestMissingCouponIsNotAnError(t *testing.T) {
	res := EvaluateCoupon(nil, 300000, time.Now())
	assert.False(t, res.Applied)
	assert.Zero(t, res.Discount)
	assert.Equal(t, CouponNotFound, res.Reason)
}

func TestCouponEligibility(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10000,
		Status:        models.CouponStatusActive,
	}

	tests := []struct {
		name     string
		mutate   func(*models.Coupon)
		subtotal int64
		reason   string
	}{
		{
			name:     "inactive",
			mutate:   func(c *models.Coupon) { c.Status = models.CouponStatusInactive },
			subtotal: 100000,
			reason:   CouponInactive,
		},
		{
			name:     "not started",
			mutate:   func(c *models.Coupon) { c.ValidFrom = &future },
			subtotal: 100000,
			reason:   CouponNotStarted,
		},
		{
			name:     "expired",
			mutate:   func(c *models.Coupon) { c.ValidUntil = &past },
			subtotal: 100000,
			reason:   CouponExpired,
		},
		{
			name: "usage limit reached",
			mutate: func(c *models.Coupon) {
				c.UsageLimit = intPtr(5)
				c.UsedCount = 5
			},
			subtotal: 100000,
			reason:   CouponUsageLimitReached,
		},
		{
			name:     "below min order",
			mutate:   func(c *models.Coupon) { c.MinOrder = 200000 },
			subtotal: 100000,
			reason:   CouponBelowMinOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := base
			tt.mutate(&coupon)

			res := EvaluateCoupon(&coupon, tt.subtotal, now)
			assert.False(t, res.Applied)
			assert.Zero(t, res.Discount)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestOpenEndedValidityWindow(t *testing.T) {
	now := time.Now()
	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 5000,
		Status:        models.CouponStatusActive,
		// both bounds absent: always within the window
	}

	res := EvaluateCoupon(coupon, 50000, now)
	assert.True(t, res.Applied)
	assert.Equal(t, int64(5000), res.Discount)
}

func TestDiscountBoundsHoldForAllCouponTypes(t *testing.T) {
	subtotals := []int64{0, 1, 999, 100000, 300000, 10000000}
	coupons := []*models.Coupon{
		{DiscountType: models.DiscountTypePercentage, DiscountValue: 100, Status: models.CouponStatusActive},
		{DiscountType: models.DiscountTypePercentage, DiscountValue: 1, Status: models.CouponStatusActive},
		{DiscountType: models.DiscountTypeFixed, DiscountValue: 1000000, Status: models.CouponStatusActive},
	}

	for _, c := range coupons {
		for _, subtotal := range subtotals {
			res := EvaluateCoupon(c, subtotal, time.Now())
			assert.GreaterOrEqual(t, res.Discount, int64(0))
			assert.LessOrEqual(t, res.Discount, subtotal)
		}
	}
}
