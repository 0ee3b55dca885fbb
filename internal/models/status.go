package models

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods
const (
	PaymentMethodCOD     = "cod"
	PaymentMethodVNPay   = "vnpay"
	PaymentMethodMomo    = "momo"
	PaymentMethodZaloPay = "zalopay"
	PaymentMethodPayPal  = "paypal"
)

var orderStatusNext = map[string]string{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipping,
	OrderStatusShipping:   OrderStatusDelivered,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. The fulfillment chain is pending -> confirmed -> processing ->
// shipping -> delivered; cancelled is reachable from any state before
// delivery. Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	if !ValidOrderStatus(from) || !ValidOrderStatus(to) {
		return false
	}
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return orderStatusNext[from] == to
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodVNPay, PaymentMethodMomo,
		PaymentMethodZaloPay, PaymentMethodPayPal:
		return true
	}
	return false
}
