package store

import (
	"errors"
	"fmt"
)

// Business-rule failures surfaced to callers. Anything else coming out
// of the store is an infrastructure error and is reported generically.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found or no longer sold")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponCodeTaken    = errors.New("coupon code already exists")
	ErrCouponInUse        = errors.New("coupon has been used and cannot be deleted")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateOrder     = errors.New("order with this idempotency key already exists")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrOrderNumberExhaust = errors.New("could not generate a unique order number")
)

// InsufficientStockError reports which product ran short and how many
// units remain, so the storefront can tell the customer.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d left", e.ProductName, e.Available)
}
