package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweetiegarden/internal/models"
)

// CreateCoupon inserts a new coupon. The code must be unique.
func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	query := `
		INSERT INTO coupons
			(code, name, description, discount_type, discount_value,
			 min_order, max_discount, usage_limit, valid_from, valid_until, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, used_count, created_at, updated_at`

	err := s.db.GetContext(ctx, coupon, query,
		coupon.Code, coupon.Name, coupon.Description,
		coupon.DiscountType, coupon.DiscountValue,
		coupon.MinOrder, coupon.MaxDiscount, coupon.UsageLimit,
		coupon.ValidFrom, coupon.ValidUntil, coupon.Status)
	if isUniqueViolation(err) {
		return ErrCouponCodeTaken
	}
	return err
}

// UpdateCoupon updates a coupon's editable fields. The code and the
// used_count are not touched.
func (s *Store) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET name = $1, description = $2, discount_type = $3, discount_value = $4,
		    min_order = $5, max_discount = $6, usage_limit = $7,
		    valid_from = $8, valid_until = $9, status = $10, updated_at = NOW()
		WHERE id = $11`,
		coupon.Name, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinOrder, coupon.MaxDiscount, coupon.UsageLimit,
		coupon.ValidFrom, coupon.ValidUntil, coupon.Status, coupon.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// DeleteCoupon removes an unused coupon. Coupons with usage records are
// kept for audit; deactivate them instead.
func (s *Store) DeleteCoupon(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM coupons WHERE id = $1)", id); err != nil {
		return err
	}
	if !exists {
		return ErrCouponNotFound
	}

	var used bool
	if err := tx.GetContext(ctx, &used,
		"SELECT EXISTS(SELECT 1 FROM coupon_usage WHERE coupon_id = $1)", id); err != nil {
		return err
	}
	if used {
		return ErrCouponInUse
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCouponByID retrieves a coupon by ID
func (s *Store) GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetCouponByCode retrieves a coupon by its (uppercased) code
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon,
		"SELECT * FROM coupons WHERE code = $1", strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CouponFilter narrows a coupon listing.
type CouponFilter struct {
	Status string
	Page   int
	Limit  int
}

// ListCoupons returns one page of coupons, newest first, and the total
// match count.
func (s *Store) ListCoupons(ctx context.Context, f CouponFilter) ([]models.Coupon, int, error) {
	whereClause := ""
	args := []interface{}{}
	if f.Status != "" {
		whereClause = "WHERE status = $1"
		args = append(args, f.Status)
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT COUNT(*) FROM coupons %s", whereClause), args...); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`
		SELECT * FROM coupons %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, len(args)-1, len(args))

	var coupons []models.Coupon
	if err := s.db.SelectContext(ctx, &coupons, query, args...); err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}
