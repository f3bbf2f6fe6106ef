package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	limit := int64(10)

	tests := []struct {
		name    string
		coupon  Coupon
		wantErr error
	}{
		{
			name:   "active without restrictions",
			coupon: Coupon{Code: "save10", IsActive: true},
		},
		{
			name:    "inactive",
			coupon:  Coupon{Code: "save10", IsActive: false},
			wantErr: ErrCouponInactive,
		},
		{
			name:    "expired",
			coupon:  Coupon{Code: "save10", IsActive: true, ValidUntil: &past},
			wantErr: ErrCouponExpired,
		},
		{
			name:   "not yet expired",
			coupon: Coupon{Code: "save10", IsActive: true, ValidUntil: &future},
		},
		{
			name:    "claim limit reached",
			coupon:  Coupon{Code: "save10", IsActive: true, MaxClaims: &limit, Claims: 10},
			wantErr: ErrCouponLimitReached,
		},
		{
			name:   "claims below limit",
			coupon: Coupon{Code: "save10", IsActive: true, MaxClaims: &limit, Claims: 9},
		},
		{
			name:    "inactive wins over expired",
			coupon:  Coupon{Code: "save10", IsActive: false, ValidUntil: &past},
			wantErr: ErrCouponInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.Usable(now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	cart := []CartLine{
		{ProductID: 1, VariantID: 11, Quantity: 2, Price: 2999},
		{ProductID: 2, VariantID: 21, Quantity: 1, Price: 1500},
	}

	tests := []struct {
		name   string
		coupon Coupon
		lines  []CartLine
		want   int64
	}{
		{
			name:   "percentage over whole cart rounds half up",
			coupon: Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			lines:  cart,
			want:   750, // 7498 * 10% = 749.8
		},
		{
			name:   "percentage over single line",
			coupon: Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			lines:  cart[:1],
			want:   600, // 5998 * 10% = 599.8
		},
		{
			name:   "fixed below subtotal",
			coupon: Coupon{DiscountType: DiscountFixed, DiscountValue: 500},
			lines:  cart,
			want:   500,
		},
		{
			name:   "fixed capped at applicable subtotal",
			coupon: Coupon{DiscountType: DiscountFixed, DiscountValue: 99999},
			lines:  cart,
			want:   7498,
		},
		{
			name: "restricted to one product",
			coupon: Coupon{
				DiscountType:         DiscountPercentage,
				DiscountValue:        50,
				ApplicableProductIDs: []int64{2},
			},
			lines: cart,
			want:  750, // only the 1500 line counts
		},
		{
			name: "no applicable products in cart",
			coupon: Coupon{
				DiscountType:         DiscountFixed,
				DiscountValue:        500,
				ApplicableProductIDs: []int64{42},
			},
			lines: cart,
			want:  0,
		},
		{
			name:   "empty cart",
			coupon: Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			lines:  nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.coupon.Discount(tt.lines)
			assert.Equal(t, tt.want, got)

			// evaluation has no side effects, so a second pass agrees
			assert.Equal(t, got, tt.coupon.Discount(tt.lines))
		})
	}
}
