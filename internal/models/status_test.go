package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipping, true},
		{OrderStatusShipping, OrderStatusDelivered, true},

		// cancellation is allowed from any non-terminal state
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipping, OrderStatusCancelled, true},

		// no skipping ahead or moving backwards
		{OrderStatusPending, OrderStatusShipping, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipping, OrderStatusConfirmed, false},

		// terminal states stay terminal
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipping, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},

		// self transitions are no-ops, not moves
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, ValidOrderStatus(s), s)
	}

	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("refunded"))
	assert.False(t, ValidOrderStatus("PENDING"))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{
		PaymentMethodCOD, PaymentMethodVNPay, PaymentMethodMomo,
		PaymentMethodZaloPay, PaymentMethodPayPal,
	} {
		assert.True(t, ValidPaymentMethod(m), m)
	}

	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("crypto"))
}
