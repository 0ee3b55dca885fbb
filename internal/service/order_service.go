package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sweetiegarden/config"
	"sweetiegarden/internal/broker"
	"sweetiegarden/internal/models"
	"sweetiegarden/internal/pricing"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownPaymentMethod is returned when the client supplies a payment
// method outside the supported set.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ErrForbidden is returned when the caller may not access the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnknownStatus is returned for a status outside the order life cycle
var ErrUnknownStatus = errors.New("unknown order status")

// ErrUnknownPeriod is returned for an unrecognized stats period
var ErrUnknownPeriod = errors.New("unknown stats period")

// OrderService handles order placement and the order read surface
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	shop           config.ShopConfig
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, eventPublisher *broker.EventPublisher, shop config.ShopConfig) *OrderService {
	return &OrderService{
		store:          st,
		eventPublisher: eventPublisher,
		shop:           shop,
		logger:         util.GetLogger(),
	}
}

// PlaceOrderRequest is the order creation payload
type PlaceOrderRequest struct {
	ShippingName     string  `json:"shipping_name" binding:"required"`
	ShippingPhone    string  `json:"shipping_phone" binding:"required"`
	ShippingAddress  string  `json:"shipping_address" binding:"required"`
	ShippingCity     *string `json:"shipping_city"`
	ShippingDistrict *string `json:"shipping_district"`
	ShippingWard     *string `json:"shipping_ward"`
	PaymentMethod    string  `json:"payment_method"`
	CouponCode       string  `json:"coupon_code"`
	Notes            *string `json:"notes"`
	Email            *string `json:"email"`
	IdempotencyKey   string  `json:"idempotency_key"`
}

// PlaceOrderResponse is returned after an order is created. CouponWarning
// is set when a supplied coupon code did not apply; the order still went
// through at full price.
type PlaceOrderResponse struct {
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	Total         int64  `json:"total"`
	Status        string `json:"status"`
	CouponWarning string `json:"coupon_warning,omitempty"`
	Duplicate     bool   `json:"duplicate,omitempty"`
}

// PlaceOrder creates an order from the caller's cart. A repeated request
// with the same idempotency key returns the original order instead of
// placing a second one.
func (s *OrderService) PlaceOrder(ctx context.Context, identity models.Identity, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	switch {
	case req.PaymentMethod == "":
		req.PaymentMethod = models.PaymentMethodCOD
	case !models.ValidPaymentMethod(req.PaymentMethod):
		util.OrdersFailedTotal.WithLabelValues("invalid_payment_method").Inc()
		return nil, ErrUnknownPaymentMethod
	}

	if req.IdempotencyKey != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("order_id", existing.ID))
			return duplicateResponse(existing), nil
		}
	}

	params := &store.PlaceOrderParams{
		Identity:         identity,
		ShippingName:     req.ShippingName,
		ShippingPhone:    req.ShippingPhone,
		ShippingAddress:  req.ShippingAddress,
		ShippingCity:     req.ShippingCity,
		ShippingDistrict: req.ShippingDistrict,
		ShippingWard:     req.ShippingWard,
		PaymentMethod:    req.PaymentMethod,
		CouponCode:       req.CouponCode,
		Notes:            req.Notes,
		GuestEmail:       req.Email,
		ShippingFee:      s.shop.ShippingFee,
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = &req.IdempotencyKey
	}

	result, err := s.store.PlaceOrder(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateOrder) && req.IdempotencyKey != "" {
			// Lost the insert race to a concurrent duplicate request
			existing, lookupErr := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return duplicateResponse(existing), nil
			}
		}
		s.countFailure(err)
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", result.Order.ID),
		zap.String("order_number", result.Order.OrderNumber),
		zap.Int64("total", result.Order.Total))

	warning := ""
	if req.CouponCode != "" {
		if result.Coupon.Applied {
			util.CouponsAppliedTotal.Inc()
		} else {
			util.CouponsSkippedTotal.WithLabelValues(result.Coupon.Reason).Inc()
			warning = couponWarning(req.CouponCode, result.Coupon.Reason)
		}
	}

	s.publishOrderPlaced(ctx, req, result)

	return &PlaceOrderResponse{
		OrderID:       result.Order.ID,
		OrderNumber:   result.Order.OrderNumber,
		Total:         result.Order.Total,
		Status:        result.Order.Status,
		CouponWarning: warning,
	}, nil
}

func duplicateResponse(order *models.Order) *PlaceOrderResponse {
	return &PlaceOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Status:      order.Status,
		Duplicate:   true,
	}
}

func (s *OrderService) countFailure(err error) {
	var stockErr *store.InsufficientStockError
	switch {
	case errors.Is(err, store.ErrEmptyCart):
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
	case errors.As(err, &stockErr):
		util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		util.StockConflictsTotal.Inc()
	default:
		util.OrdersFailedTotal.WithLabelValues("internal").Inc()
	}
}

func couponWarning(code, reason string) string {
	switch reason {
	case pricing.CouponNotFound, pricing.CouponInactive:
		return fmt.Sprintf("Coupon %q is not valid; the order was placed at full price", code)
	case pricing.CouponNotStarted:
		return fmt.Sprintf("Coupon %q is not active yet; the order was placed at full price", code)
	case pricing.CouponExpired:
		return fmt.Sprintf("Coupon %q has expired; the order was placed at full price", code)
	case pricing.CouponUsageLimitReached:
		return fmt.Sprintf("Coupon %q has reached its usage limit; the order was placed at full price", code)
	case pricing.CouponBelowMinOrder:
		return fmt.Sprintf("The order does not reach the minimum for coupon %q; it was placed at full price", code)
	default:
		return fmt.Sprintf("Coupon %q was not applied; the order was placed at full price", code)
	}
}

// notificationRecipient picks the best contact for an order: the account
// email for registered customers, the guest email when given, the
// shipping phone otherwise.
func notificationRecipient(order *models.Order, accountEmail string) string {
	if accountEmail != "" {
		return accountEmail
	}
	if order.GuestEmail != nil && *order.GuestEmail != "" {
		return *order.GuestEmail
	}
	return order.ShippingPhone
}

// accountEmail resolves the order owner's email, empty for guests
func (s *OrderService) accountEmail(ctx context.Context, order *models.Order) string {
	if order.UserID == nil {
		return ""
	}
	user, err := s.store.GetUserByID(ctx, *order.UserID)
	if err != nil {
		s.logger.Warn("Failed to resolve order owner for notification",
			zap.Int64("order_id", order.ID), zap.Error(err))
		return ""
	}
	return user.Email
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, req *PlaceOrderRequest, result *store.PlaceOrderResult) {
	recipient := notificationRecipient(result.Order, s.accountEmail(ctx, result.Order))

	items := make([]models.OrderItemData, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, models.OrderItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.ProductPrice,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     result.Order.ID,
		OrderNumber: result.Order.OrderNumber,
		UserID:      result.Order.UserID,
		Recipient:   recipient,
		Total:       result.Order.Total,
		Items:       items,
	}
	if result.Coupon.Applied {
		event.CouponCode = req.CouponCode
	}

	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

// OrderDetail is an order with its line items
type OrderDetail struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// GetOrder retrieves an order by ID or order number. Customers may only
// read their own orders; admins may read any.
func (s *OrderService) GetOrder(ctx context.Context, identity models.Identity, id int64, orderNumber string) (*OrderDetail, error) {
	var order *models.Order
	var err error
	if id > 0 {
		order, err = s.store.GetOrderByID(ctx, id)
	} else {
		order, err = s.store.GetOrderByNumber(ctx, orderNumber)
	}
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin() {
		if order.UserID == nil || *order.UserID != identity.UserID {
			return nil, ErrForbidden
		}
	}

	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{Order: order, Items: items}, nil
}

// ListOrders returns a page of orders. Admins see every order and may
// filter by status; customers see only their own.
func (s *OrderService) ListOrders(ctx context.Context, identity models.Identity, status string, page, limit int) ([]models.Order, int, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	if limit < 1 || limit > 100 {
		limit = s.shop.OrdersPerPage
	}
	if page < 1 {
		page = 1
	}

	filter := store.OrderFilter{Status: status, Page: page, Limit: limit}
	if !identity.IsAdmin() {
		filter.UserID = identity.UserID
	}
	return s.store.ListOrders(ctx, filter)
}

// StatusChange reports an admin status transition.
type StatusChange struct {
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// UpdateStatus moves an order along the fulfillment chain. Transitions
// outside the chain are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*StatusChange, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	oldStatus, err := s.store.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil {
		return nil, err
	}

	util.OrderStatusChangesTotal.WithLabelValues(newStatus).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("old_status", oldStatus),
		zap.String("new_status", newStatus))

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err == nil {
		recipient := notificationRecipient(order, s.accountEmail(ctx, order))
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Recipient:   recipient,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
		}
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return &StatusChange{OrderID: orderID, OldStatus: oldStatus, NewStatus: newStatus}, nil
}

// GetDashboardStats gathers the admin dashboard numbers for a period.
func (s *OrderService) GetDashboardStats(ctx context.Context, period string) (*store.DashboardStats, error) {
	switch period {
	case store.PeriodToday, store.PeriodWeek, store.PeriodMonth, store.PeriodYear, store.PeriodAll:
	case "":
		period = store.PeriodToday
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return s.store.GetDashboardStats(ctx, period)
}
