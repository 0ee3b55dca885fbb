package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sweetiegarden/internal/models"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrInvalidDiscount is returned for out-of-range discount values
	ErrInvalidDiscount = errors.New("invalid discount value")

	// ErrInvalidCouponWindow is returned when valid_until precedes valid_from
	ErrInvalidCouponWindow = errors.New("coupon validity window is inverted")
)

// CouponService handles admin coupon management
type CouponService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(st *store.Store) *CouponService {
	return &CouponService{store: st, logger: util.GetLogger()}
}

// CouponRequest is the create/update payload
type CouponRequest struct {
	Code          string     `json:"code" binding:"required"`
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	DiscountType  string     `json:"discount_type" binding:"required"`
	DiscountValue int64      `json:"discount_value" binding:"required"`
	MinOrder      int64      `json:"min_order"`
	MaxDiscount   *int64     `json:"max_discount"`
	UsageLimit    *int       `json:"usage_limit"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	Status        string     `json:"status"`
}

func (r *CouponRequest) validate() error {
	switch r.DiscountType {
	case models.DiscountTypePercentage:
		if r.DiscountValue < 1 || r.DiscountValue > 100 {
			return ErrInvalidDiscount
		}
	case models.DiscountTypeFixed:
		if r.DiscountValue < 1 {
			return ErrInvalidDiscount
		}
	default:
		return errors.New("discount_type must be percentage or fixed")
	}

	if r.MinOrder < 0 {
		return errors.New("min_order cannot be negative")
	}
	if r.ValidFrom != nil && r.ValidUntil != nil && r.ValidUntil.Before(*r.ValidFrom) {
		return ErrInvalidCouponWindow
	}

	switch r.Status {
	case "":
		r.Status = models.CouponStatusActive
	case models.CouponStatusActive, models.CouponStatusInactive:
	default:
		return errors.New("status must be active or inactive")
	}
	return nil
}

func (r *CouponRequest) toModel() *models.Coupon {
	return &models.Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(r.Code)),
		Name:          r.Name,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinOrder:      r.MinOrder,
		MaxDiscount:   r.MaxDiscount,
		UsageLimit:    r.UsageLimit,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		Status:        r.Status,
	}
}

// CreateCoupon creates a new coupon. Codes are stored uppercase.
func (s *CouponService) CreateCoupon(ctx context.Context, req *CouponRequest) (*models.Coupon, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	coupon := req.toModel()
	if err := s.store.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.Info("Coupon created",
		zap.Int64("coupon_id", coupon.ID), zap.String("code", coupon.Code))
	return coupon, nil
}

// UpdateCoupon updates an existing coupon. The code and used_count are
// immutable.
func (s *CouponService) UpdateCoupon(ctx context.Context, id int64, req *CouponRequest) (*models.Coupon, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	coupon := req.toModel()
	coupon.ID = id
	if err := s.store.UpdateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return s.store.GetCouponByID(ctx, id)
}

// DeleteCoupon removes a coupon that has never been redeemed
func (s *CouponService) DeleteCoupon(ctx context.Context, id int64) error {
	if err := s.store.DeleteCoupon(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Coupon deleted", zap.Int64("coupon_id", id))
	return nil
}

// GetCoupon fetches a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id int64) (*models.Coupon, error) {
	return s.store.GetCouponByID(ctx, id)
}

// ListCoupons returns a page of coupons
func (s *CouponService) ListCoupons(ctx context.Context, f store.CouponFilter) ([]models.Coupon, int, error) {
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return s.store.ListCoupons(ctx, f)
}
