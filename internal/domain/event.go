package domain

// OrderPlacedEvent is published through the outbox once the order transaction
// commits. Consumed by the notification pipeline.
type OrderPlacedEvent struct {
	OrderID       int64             `json:"order_id"`
	PublicID      string            `json:"public_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	Total         int64             `json:"total"`
	Discount      int64             `json:"discount"`
	CouponCode    string            `json:"coupon_code,omitempty"`
	Items         []OrderPlacedItem `json:"items"`
}

type OrderPlacedItem struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
}
