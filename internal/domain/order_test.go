package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "shipped", "delivered", "cancelled"} {
		status, ok := ParseOrderStatus(valid)
		assert.True(t, ok)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "Pending", "refunded", "done"} {
		_, ok := ParseOrderStatus(invalid)
		assert.False(t, ok)
	}
}

func TestCalculateTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Price: 2999, Quantity: 2},
			{Price: 1500, Quantity: 1},
		},
		Discount: 500,
	}

	order.CalculateTotals()

	assert.Equal(t, int64(7498), order.Subtotal)
	assert.Equal(t, int64(6998), order.Total)
}

func TestCalculateTotalsNeverNegative(t *testing.T) {
	order := Order{
		Items:    []OrderItem{{Price: 100, Quantity: 1}},
		Discount: 500,
	}

	order.CalculateTotals()

	assert.Equal(t, int64(100), order.Subtotal)
	assert.Equal(t, int64(0), order.Total)
}
