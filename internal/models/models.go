package models

import "time"

// User represents a customer or admin account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        *string   `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Category represents a product category
type Category struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Slug   string `db:"slug" json:"slug"`
	Status string `db:"status" json:"status"`
}

// Product represents a product in the catalog. Price fields are VND
// minor units.
type Product struct {
	ID               int64     `db:"id" json:"id"`
	CategoryID       *int64    `db:"category_id" json:"category_id"`
	Name             string    `db:"name" json:"name"`
	Slug             string    `db:"slug" json:"slug"`
	Description      *string   `db:"description" json:"description"`
	ShortDescription *string   `db:"short_description" json:"short_description"`
	Price            int64     `db:"price" json:"price"`
	SalePrice        *int64    `db:"sale_price" json:"sale_price"`
	Stock            int       `db:"stock" json:"stock"`
	Image            *string   `db:"image" json:"image"`
	Status           string    `db:"status" json:"status"`
	SalesCount       int       `db:"sales_count" json:"sales_count"`
	Views            int       `db:"views" json:"views"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Product statuses
const (
	ProductStatusActive     = "active"
	ProductStatusInactive   = "inactive"
	ProductStatusOutOfStock = "out_of_stock"
)

// EffectivePrice returns the sale price when set, else the base price.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// CartItem is a row in a cart. Exactly one of UserID and SessionToken is
// set; together with ProductID it identifies the line.
type CartItem struct {
	ID           int64     `db:"id" json:"id"`
	UserID       *int64    `db:"user_id" json:"user_id,omitempty"`
	SessionToken *string   `db:"session_token" json:"-"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	Quantity     int       `db:"quantity" json:"quantity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CartLine is a cart item joined with the live product row. Price and
// stock reflect the product at read time, not at add-to-cart time.
type CartLine struct {
	ID          int64   `db:"id" json:"id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	Quantity    int     `db:"quantity" json:"quantity"`
	ProductName string  `db:"name" json:"product_name"`
	ProductSlug string  `db:"slug" json:"product_slug"`
	Price       int64   `db:"price" json:"price"`
	SalePrice   *int64  `db:"sale_price" json:"sale_price"`
	Stock       int     `db:"stock" json:"stock"`
	Image       *string `db:"image" json:"image"`
}

// EffectivePrice returns the sale price when set, else the base price.
func (l *CartLine) EffectivePrice() int64 {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.Price
}

// Subtotal returns the line total at the effective price.
func (l *CartLine) Subtotal() int64 {
	return l.EffectivePrice() * int64(l.Quantity)
}

// Coupon represents a discount code
type Coupon struct {
	ID            int64      `db:"id" json:"id"`
	Code          string     `db:"code" json:"code"`
	Name          *string    `db:"name" json:"name"`
	Description   *string    `db:"description" json:"description"`
	DiscountType  string     `db:"discount_type" json:"discount_type"`
	DiscountValue int64      `db:"discount_value" json:"discount_value"`
	MinOrder      int64      `db:"min_order" json:"min_order"`
	MaxDiscount   *int64     `db:"max_discount" json:"max_discount"`
	UsageLimit    *int       `db:"usage_limit" json:"usage_limit"`
	UsedCount     int        `db:"used_count" json:"used_count"`
	ValidFrom     *time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil    *time.Time `db:"valid_until" json:"valid_until"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon statuses
const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

// Order represents a customer order. Total = Subtotal - Discount +
// ShippingFee, fixed at creation.
type Order struct {
	ID               int64     `db:"id" json:"id"`
	OrderNumber      string    `db:"order_number" json:"order_number"`
	UserID           *int64    `db:"user_id" json:"user_id"`
	GuestName        *string   `db:"guest_name" json:"guest_name,omitempty"`
	GuestPhone       *string   `db:"guest_phone" json:"guest_phone,omitempty"`
	GuestEmail       *string   `db:"guest_email" json:"guest_email,omitempty"`
	Subtotal         int64     `db:"subtotal" json:"subtotal"`
	Discount         int64     `db:"discount" json:"discount"`
	ShippingFee      int64     `db:"shipping_fee" json:"shipping_fee"`
	Total            int64     `db:"total" json:"total"`
	PaymentMethod    string    `db:"payment_method" json:"payment_method"`
	Status           string    `db:"status" json:"status"`
	ShippingName     string    `db:"shipping_name" json:"shipping_name"`
	ShippingPhone    string    `db:"shipping_phone" json:"shipping_phone"`
	ShippingAddress  string    `db:"shipping_address" json:"shipping_address"`
	ShippingCity     *string   `db:"shipping_city" json:"shipping_city"`
	ShippingDistrict *string   `db:"shipping_district" json:"shipping_district"`
	ShippingWard     *string   `db:"shipping_ward" json:"shipping_ward"`
	Notes            *string   `db:"notes" json:"notes"`
	IdempotencyKey   *string   `db:"idempotency_key" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem snapshots product name and price at purchase time, so later
// product edits do not alter historical orders.
type OrderItem struct {
	ID           int64  `db:"id" json:"id"`
	OrderID      int64  `db:"order_id" json:"order_id"`
	ProductID    int64  `db:"product_id" json:"product_id"`
	ProductName  string `db:"product_name" json:"product_name"`
	ProductPrice int64  `db:"product_price" json:"product_price"`
	Quantity     int    `db:"quantity" json:"quantity"`
	Subtotal     int64  `db:"subtotal" json:"subtotal"`
}

// CouponUsage records one coupon application per order
type CouponUsage struct {
	ID             int64     `db:"id" json:"id"`
	CouponID       int64     `db:"coupon_id" json:"coupon_id"`
	OrderID        int64     `db:"order_id" json:"order_id"`
	UserID         *int64    `db:"user_id" json:"user_id"`
	DiscountAmount int64     `db:"discount_amount" json:"discount_amount"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Notification is a customer notification recorded by the order worker
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Channel   string    `db:"channel" json:"channel"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Identity is the resolved owner identity of a request: an authenticated
// user or an anonymous guest token, never both.
type Identity struct {
	UserID     int64
	Role       string
	GuestToken string
}

// IsUser reports whether the identity is an authenticated user.
func (id Identity) IsUser() bool {
	return id.UserID > 0
}

// IsAdmin reports whether the identity is an admin user.
func (id Identity) IsAdmin() bool {
	return id.IsUser() && id.Role == RoleAdmin
}
