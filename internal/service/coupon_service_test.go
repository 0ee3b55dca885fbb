package service

import (
	"testing"
	"time"

	"sweetiegarden/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponRequestValidate(t *testing.T) {
	base := func() *CouponRequest {
		return &CouponRequest{
			Code:          "sweet10",
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: 10,
		}
	}

	t.Run("valid percentage", func(t *testing.T) {
		req := base()
		require.NoError(t, req.validate())
		assert.Equal(t, models.CouponStatusActive, req.Status)
	})

	t.Run("percentage over 100", func(t *testing.T) {
		req := base()
		req.DiscountValue = 150
		assert.ErrorIs(t, req.validate(), ErrInvalidDiscount)
	})

	t.Run("zero fixed discount", func(t *testing.T) {
		req := base()
		req.DiscountType = models.DiscountTypeFixed
		req.DiscountValue = 0
		assert.ErrorIs(t, req.validate(), ErrInvalidDiscount)
	})

	t.Run("unknown discount type", func(t *testing.T) {
		req := base()
		req.DiscountType = "bogo"
		assert.Error(t, req.validate())
	})

	t.Run("inverted validity window", func(t *testing.T) {
		req := base()
		from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		until := from.AddDate(0, 0, -7)
		req.ValidFrom = &from
		req.ValidUntil = &until
		assert.ErrorIs(t, req.validate(), ErrInvalidCouponWindow)
	})

	t.Run("negative min order", func(t *testing.T) {
		req := base()
		req.MinOrder = -1
		assert.Error(t, req.validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		req := base()
		req.Status = "paused"
		assert.Error(t, req.validate())
	})
}

func TestCouponRequestToModel(t *testing.T) {
	req := &CouponRequest{
		Code:          "  sweet10 ",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
	}
	require.NoError(t, req.validate())

	coupon := req.toModel()
	assert.Equal(t, "SWEET10", coupon.Code)
	assert.Equal(t, models.CouponStatusActive, coupon.Status)
}
