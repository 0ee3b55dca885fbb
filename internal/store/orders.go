package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sweetiegarden/internal/models"
	"sweetiegarden/internal/pricing"

	"github.com/google/uuid"
)

const orderNumberAttempts = 5

// PlaceOrderParams carries everything the order transaction needs.
// Shipping fee is passed in so the store stays free of business config.
type PlaceOrderParams struct {
	Identity         models.Identity
	ShippingName     string
	ShippingPhone    string
	ShippingAddress  string
	ShippingCity     *string
	ShippingDistrict *string
	ShippingWard     *string
	PaymentMethod    string
	CouponCode       string
	Notes            *string
	GuestEmail       *string
	IdempotencyKey   *string
	ShippingFee      int64
}

// PlaceOrderResult is the outcome of a successful order transaction.
type PlaceOrderResult struct {
	Order  *models.Order
	Items  []models.OrderItem
	Coupon pricing.CouponResult
}

// PlaceOrder runs the whole order placement as one transaction: cart
// snapshot, coupon evaluation, order and item inserts, conditional stock
// decrements, coupon usage, cart clearing. Any failure rolls everything
// back.
//
// Stock is taken with `stock = stock - qty WHERE stock >= qty` and the
// affected-row count checked, so two concurrent checkouts of the last
// unit cannot both succeed.
func (s *Store) PlaceOrder(ctx context.Context, p *PlaceOrderParams) (*PlaceOrderResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lines, err := cartLines(ctx, tx, p.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Friendly pre-check; the conditional decrement below still guards
	// against concurrent checkouts.
	for i := range lines {
		if lines[i].Stock < lines[i].Quantity {
			return nil, &InsufficientStockError{
				ProductName: lines[i].ProductName,
				Available:   lines[i].Stock,
			}
		}
	}

	subtotal := pricing.Subtotal(lines)
	now := time.Now()

	couponRes := pricing.CouponResult{}
	if p.CouponCode != "" {
		couponRes, err = claimCoupon(ctx, tx, strings.ToUpper(strings.TrimSpace(p.CouponCode)), subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	total := pricing.OrderTotal(subtotal, couponRes.Discount, p.ShippingFee)

	order := &models.Order{
		Subtotal:         subtotal,
		Discount:         couponRes.Discount,
		ShippingFee:      p.ShippingFee,
		Total:            total,
		PaymentMethod:    p.PaymentMethod,
		Status:           models.OrderStatusPending,
		ShippingName:     p.ShippingName,
		ShippingPhone:    p.ShippingPhone,
		ShippingAddress:  p.ShippingAddress,
		ShippingCity:     p.ShippingCity,
		ShippingDistrict: p.ShippingDistrict,
		ShippingWard:     p.ShippingWard,
		Notes:            p.Notes,
		IdempotencyKey:   p.IdempotencyKey,
	}
	if p.Identity.IsUser() {
		order.UserID = &p.Identity.UserID
	} else {
		order.GuestName = &p.ShippingName
		order.GuestPhone = &p.ShippingPhone
		order.GuestEmail = p.GuestEmail
	}

	if err := insertOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		item := models.OrderItem{
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductPrice: line.EffectivePrice(),
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal(),
		}
		err := tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, sales_count = sales_count + $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1`,
			line.Quantity, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to take stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			// Lost a race for the last units since the pre-check
			var available int
			if err := tx.QueryRowxContext(ctx,
				"SELECT stock FROM products WHERE id = $1", line.ProductID).Scan(&available); err != nil {
				available = 0
			}
			return nil, &InsufficientStockError{ProductName: line.ProductName, Available: available}
		}

		items = append(items, item)
	}

	if couponRes.Applied {
		var userID *int64
		if p.Identity.IsUser() {
			userID = &p.Identity.UserID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO coupon_usage (coupon_id, order_id, user_id, discount_amount)
			VALUES ($1, $2, $3, $4)`,
			couponRes.CouponID, order.ID, userID, couponRes.Discount)
		if err != nil {
			return nil, fmt.Errorf("failed to record coupon usage: %w", err)
		}
	}

	if err := clearCart(ctx, tx, p.Identity); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &PlaceOrderResult{Order: order, Items: items, Coupon: couponRes}, nil
}

// claimCoupon evaluates a coupon code against the subtotal and, when
// eligible, claims one use with a conditional increment so used_count can
// never pass usage_limit under concurrent checkouts. Losing that race
// downgrades the coupon to not-applied rather than failing the order.
func claimCoupon(ctx context.Context, tx sqlxTx, code string, subtotal int64, now time.Time) (pricing.CouponResult, error) {
	var coupon models.Coupon
	err := tx.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE code = $1", code)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.EvaluateCoupon(nil, subtotal, now), nil
	}
	if err != nil {
		return pricing.CouponResult{}, fmt.Errorf("failed to look up coupon: %w", err)
	}

	res := pricing.EvaluateCoupon(&coupon, subtotal, now)
	if !res.Applied {
		return res, nil
	}

	claim, err := tx.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`,
		coupon.ID)
	if err != nil {
		return pricing.CouponResult{}, fmt.Errorf("failed to claim coupon: %w", err)
	}
	affected, err := claim.RowsAffected()
	if err != nil {
		return pricing.CouponResult{}, err
	}
	if affected == 0 {
		return pricing.CouponResult{Reason: pricing.CouponUsageLimitReached}, nil
	}
	return res, nil
}

// insertOrder writes the order header, regenerating the order number on
// an order_number collision. An idempotency_key collision means a
// concurrent duplicate request won the race.
func insertOrder(ctx context.Context, tx sqlxTx, order *models.Order) error {
	query := `
		INSERT INTO orders
			(order_number, user_id, guest_name, guest_phone, guest_email,
			 subtotal, discount, shipping_fee, total, payment_method, status,
			 shipping_name, shipping_phone, shipping_address,
			 shipping_city, shipping_district, shipping_ward, notes, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		// A failed INSERT aborts the surrounding transaction, so each
		// attempt runs under a savepoint we can roll back to.
		if _, err := tx.ExecContext(ctx, "SAVEPOINT order_insert"); err != nil {
			return err
		}

		order.OrderNumber = generateOrderNumber()
		err := tx.GetContext(ctx, order, query,
			order.OrderNumber, order.UserID, order.GuestName, order.GuestPhone, order.GuestEmail,
			order.Subtotal, order.Discount, order.ShippingFee, order.Total,
			order.PaymentMethod, order.Status,
			order.ShippingName, order.ShippingPhone, order.ShippingAddress,
			order.ShippingCity, order.ShippingDistrict, order.ShippingWard,
			order.Notes, order.IdempotencyKey)
		if err == nil {
			_, err = tx.ExecContext(ctx, "RELEASE SAVEPOINT order_insert")
			return err
		}
		if isUniqueViolationOn(err, "orders_idempotency_key_key") {
			return ErrDuplicateOrder
		}
		if isUniqueViolationOn(err, "orders_order_number_key") {
			if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT order_insert"); err != nil {
				return err
			}
			continue
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return ErrOrderNumberExhaust
}

// generateOrderNumber builds a human-readable order code: a DH prefix,
// the date, and a short random suffix. Uniqueness is enforced by the
// orders.order_number constraint, not by this function.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "DH" + time.Now().Format("20060102") + suffix
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber retrieves an order by its order number
func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE order_number = $1", orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByIdempotencyKey retrieves an order by idempotency key, nil
// when no order carries the key.
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE idempotency_key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves all items for an order
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	UserID int64 // 0 = all users (admin)
	Status string
	Page   int
	Limit  int
}

// ListOrders returns one page of orders, newest first, and the total
// match count.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int, error) {
	where := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.UserID > 0 {
		where = append(where, "user_id = "+arg(f.UserID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM orders %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s`,
		whereClause, arg(f.Limit), arg((f.Page-1)*f.Limit))

	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrderStatus moves an order along the fulfillment chain, holding a
// row lock while the transition is validated. Returns the previous
// status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowxContext(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}

	if !models.CanTransition(current, newStatus) {
		return current, ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		newStatus, orderID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return current, nil
}
