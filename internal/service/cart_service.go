package service

import (
	"context"
	"errors"

	"sweetiegarden/config"
	"sweetiegarden/internal/models"
	"sweetiegarden/internal/pricing"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"
)

// ErrInvalidQuantity is returned for non-positive quantities
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartService handles the shopping cart
type CartService struct {
	store *store.Store
	shop  config.ShopConfig
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store, shop config.ShopConfig) *CartService {
	return &CartService{store: st, shop: shop}
}

// CartView is the cart with its running totals. ShippingFee and Total are
// estimates; the coupon is only evaluated at checkout.
type CartView struct {
	Items       []models.CartLine `json:"items"`
	ItemCount   int               `json:"item_count"`
	Subtotal    int64             `json:"subtotal"`
	ShippingFee int64             `json:"shipping_fee"`
	Total       int64             `json:"total"`
}

// GetCart returns the caller's cart with totals
func (s *CartService) GetCart(ctx context.Context, identity models.Identity) (*CartView, error) {
	lines, err := s.store.CartLines(ctx, identity)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: lines, Subtotal: pricing.Subtotal(lines)}
	for _, line := range lines {
		view.ItemCount += line.Quantity
	}
	if len(lines) > 0 {
		view.ShippingFee = s.shop.ShippingFee
	}
	view.Total = view.Subtotal + view.ShippingFee
	return view, nil
}

// AddItem adds a product to the cart, folding into an existing line.
// Returns the line's new quantity.
func (s *CartService) AddItem(ctx context.Context, identity models.Identity, productID int64, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	newQty, err := s.store.AddToCart(ctx, identity, productID, quantity)
	if err != nil {
		return 0, err
	}
	util.CartItemsAddedTotal.Inc()
	return newQty, nil
}

// UpdateItem sets a cart line's quantity
func (s *CartService) UpdateItem(ctx context.Context, identity models.Identity, itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.store.UpdateCartItem(ctx, identity, itemID, quantity)
}

// RemoveItem deletes a cart line
func (s *CartService) RemoveItem(ctx context.Context, identity models.Identity, itemID int64) error {
	return s.store.RemoveCartItem(ctx, identity, itemID)
}
