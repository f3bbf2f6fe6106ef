package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// CanTransitionTo encodes the order lifecycle: pending -> shipped ->
// delivered, with cancellation allowed from pending and shipped. Delivered
// and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	default:
		return false
	}
}

func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

type Order struct {
	ID            int64       `db:"id"`
	PublicID      uuid.UUID   `db:"public_id"`
	CustomerUID   string      `db:"customer_uid"`
	CustomerName  string      `db:"customer_name"`
	CustomerEmail string      `db:"customer_email"`
	Status        OrderStatus `db:"status"`
	Items         []OrderItem `db:"items"`
	Subtotal      int64       `db:"subtotal"`
	Discount      int64       `db:"discount"`
	Total         int64       `db:"total"`
	CouponCode    *string     `db:"coupon_code"`
	PaymentMethod string      `db:"payment_method"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OrderItem is a line snapshotted at commit time: later catalog edits do not
// rewrite history.
type OrderItem struct {
	ID        int64  `db:"id"`
	OrderID   int64  `db:"order_id"`
	ProductID int64  `db:"product_id"`
	VariantID int64  `db:"variant_id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	Size      string `db:"size"`
	Price     int64  `db:"price"`
	Quantity  int32  `db:"quantity"`
	ImageUrl  string `db:"image_url"`
}

func (o *Order) CalculateTotals() {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.Price * int64(item.Quantity)
	}

	o.Subtotal = subtotal

	total := subtotal - o.Discount
	if total < 0 {
		total = 0
	}
	o.Total = total
}
