package service_test

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
)

func (s *IntegrationTestSuite) TestCouponCreate_DuplicateCode() {
	s.seedCoupon(domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	})

	// codes are case-insensitive, so save10 collides with SAVE10
	_, err := s.CouponService.Create(s.Ctx, &domain.Coupon{
		Code:          "save10",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		IsActive:      true,
	})
	s.Require().ErrorIs(err, repository.ErrCouponCodeTaken)
}

func (s *IntegrationTestSuite) TestPreviewDiscount_DoesNotConsumeClaim() {
	productID, _ := s.seedProduct("Linen Shirt", 5, 2999)
	couponID := s.seedCoupon(domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	})

	lines := []domain.CartLine{
		{ProductID: productID, VariantID: 1, Quantity: 2, Price: 2999},
	}

	preview, err := s.CouponService.PreviewDiscount(s.Ctx, lines, "SAVE10")
	s.Require().NoError(err)

	s.Equal(int64(5998), preview.Subtotal)
	s.Equal(int64(600), preview.Discount)
	s.Equal(int64(5398), preview.Total)

	// previewing twice yields the same numbers and claims never move
	again, err := s.CouponService.PreviewDiscount(s.Ctx, lines, "SAVE10")
	s.Require().NoError(err)
	s.Equal(preview.Discount, again.Discount)
	s.Equal(int64(0), s.couponClaims(couponID))
}

func (s *IntegrationTestSuite) TestPreviewDiscount_InactiveCoupon() {
	productID, _ := s.seedProduct("Linen Shirt", 5, 2999)
	s.seedCoupon(domain.Coupon{
		Code:          "PAUSED",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		IsActive:      false,
	})

	_, err := s.CouponService.PreviewDiscount(s.Ctx, []domain.CartLine{
		{ProductID: productID, VariantID: 1, Quantity: 1, Price: 2999},
	}, "PAUSED")
	s.Require().ErrorIs(err, domain.ErrCouponInactive)
}

func (s *IntegrationTestSuite) TestCouponRestrictedToProducts() {
	productAID, variantAID := s.seedProduct("Linen Shirt", 5, 2999)
	productBID, variantBID := s.seedProduct("Wool Scarf", 5, 1500)

	s.seedCoupon(domain.Coupon{
		Code:                 "SCARF50",
		DiscountType:         domain.DiscountPercentage,
		DiscountValue:        50,
		IsActive:             true,
		ApplicableProductIDs: []int64{productBID},
	})

	order, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productAID, VariantID: variantAID, Quantity: 1, Price: 2999},
		{ProductID: productBID, VariantID: variantBID, Quantity: 1, Price: 1500},
	}, "SCARF50")
	s.Require().NoError(err)

	// only the scarf line is discounted
	s.Equal(int64(4499), order.Subtotal)
	s.Equal(int64(750), order.Discount)
	s.Equal(int64(3749), order.Total)
}
