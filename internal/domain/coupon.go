package domain

import (
	"errors"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var (
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponLimitReached = errors.New("coupon claim limit reached")
)

type Coupon struct {
	ID            int64        `db:"id"`
	Code          string       `db:"code"`
	DiscountType  DiscountType `db:"discount_type"`
	DiscountValue int64        `db:"discount_value"`
	IsActive      bool         `db:"is_active"`
	ValidUntil    *time.Time   `db:"valid_until"`
	MaxClaims     *int64       `db:"max_claims"`
	Claims        int64        `db:"claims"`

	// Product ids this coupon applies to. Empty means the whole cart.
	ApplicableProductIDs []int64 `db:"applicable_product_ids"`

	CreatedAt time.Time `db:"created_at"`
}

// Usable reports whether the coupon can still be redeemed. Checks run in a
// fixed order so callers always see the same failure for the same coupon.
func (c *Coupon) Usable(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}

	if c.ValidUntil != nil && c.ValidUntil.Before(now) {
		return ErrCouponExpired
	}

	if c.MaxClaims != nil && c.Claims >= *c.MaxClaims {
		return ErrCouponLimitReached
	}

	return nil
}

func (c *Coupon) appliesTo(productID int64) bool {
	if len(c.ApplicableProductIDs) == 0 {
		return true
	}

	for _, id := range c.ApplicableProductIDs {
		if id == productID {
			return true
		}
	}

	return false
}

// Discount computes the discount for a cart in minor units. It never exceeds
// the applicable subtotal, so the order total cannot go negative. Percentage
// discounts are rounded half-up to the minor unit. No side effects: the claims
// counter moves only when an order commits.
func (c *Coupon) Discount(lines []CartLine) int64 {
	var applicableSubtotal int64
	for _, line := range lines {
		if c.appliesTo(line.ProductID) {
			applicableSubtotal += line.Price * int64(line.Quantity)
		}
	}

	switch c.DiscountType {
	case DiscountFixed:
		if c.DiscountValue < applicableSubtotal {
			return c.DiscountValue
		}
		return applicableSubtotal
	case DiscountPercentage:
		return (applicableSubtotal*c.DiscountValue + 50) / 100
	default:
		return 0
	}
}

// CouponUsage is the append-only redemption record created in the same
// transaction as the order that used the coupon.
type CouponUsage struct {
	ID            int64     `db:"id"`
	CouponCode    string    `db:"coupon_code"`
	OrderID       int64     `db:"order_id"`
	CustomerEmail string    `db:"customer_email"`
	Discount      int64     `db:"discount"`
	UsedAt        time.Time `db:"used_at"`
}
