package service_test

import (
	"sync"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/google/uuid"
)

func (s *IntegrationTestSuite) TestPlaceOrder_Success() {
	productID, variantID := s.seedProduct("Linen Shirt", 15, 2999)

	order, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 2, Price: 2999},
	}, "")
	s.Require().NoError(err)
	s.Require().NotNil(order)

	s.Equal(domain.OrderStatusPending, order.Status)
	s.Equal(int64(5998), order.Subtotal)
	s.Equal(int64(0), order.Discount)
	s.Equal(int64(5998), order.Total)
	s.NotEqual(uuid.Nil, order.PublicID)
	s.Equal(int64(13), s.variantStock(variantID))

	// the event rides in the same transaction as the order
	var outboxCount int64
	err = s.DbPool.QueryRow(
		s.Ctx,
		`SELECT COUNT(*) FROM outbox WHERE event_type = 'OrderPlaced'`,
	).Scan(&outboxCount)
	s.Require().NoError(err)
	s.Equal(int64(1), outboxCount)
}

func (s *IntegrationTestSuite) TestPlaceOrder_WithCoupon() {
	productID, variantID := s.seedProduct("Linen Shirt", 15, 2999)
	couponID := s.seedCoupon(domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	})

	order, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 2, Price: 2999},
	}, "SAVE10")
	s.Require().NoError(err)

	s.Equal(int64(5998), order.Subtotal)
	s.Equal(int64(600), order.Discount)
	s.Equal(int64(5398), order.Total)
	s.Equal(int64(1), s.couponClaims(couponID))

	var usages int64
	err = s.DbPool.QueryRow(
		s.Ctx,
		`SELECT COUNT(*) FROM coupon_usages WHERE order_id = $1`,
		order.ID,
	).Scan(&usages)
	s.Require().NoError(err)
	s.Equal(int64(1), usages)
}

func (s *IntegrationTestSuite) TestPlaceOrder_InsufficientStock() {
	productID, variantID := s.seedProduct("Linen Shirt", 1, 2999)

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 2, Price: 2999},
	}, "")
	s.Require().ErrorIs(err, repository.ErrInsufficientStock)

	s.Equal(int64(0), s.orderCount())
	s.Equal(int64(1), s.variantStock(variantID))
}

func (s *IntegrationTestSuite) TestPlaceOrder_UnknownProduct() {
	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: 424242, VariantID: 1, Quantity: 1, Price: 100},
	}, "")
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}

func (s *IntegrationTestSuite) TestPlaceOrder_UnknownVariant() {
	productID, _ := s.seedProduct("Linen Shirt", 5, 2999)

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: 424242, Quantity: 1, Price: 2999},
	}, "")
	s.Require().ErrorIs(err, repository.ErrVariantNotFound)
}

func (s *IntegrationTestSuite) TestPlaceOrder_UnknownCoupon() {
	productID, variantID := s.seedProduct("Linen Shirt", 5, 2999)

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "NOPE")
	s.Require().ErrorIs(err, repository.ErrCouponNotFound)

	s.Equal(int64(0), s.orderCount())
	s.Equal(int64(5), s.variantStock(variantID))
}

func (s *IntegrationTestSuite) TestPlaceOrder_CouponLimitReached() {
	productID, variantID := s.seedProduct("Linen Shirt", 5, 2999)

	maxClaims := int64(1)
	s.seedCoupon(domain.Coupon{
		Code:          "ONCE",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		IsActive:      true,
		MaxClaims:     &maxClaims,
	})

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "ONCE")
	s.Require().NoError(err)

	_, err = s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "ONCE")
	s.Require().ErrorIs(err, domain.ErrCouponLimitReached)

	// the failed attempt left nothing behind
	s.Equal(int64(1), s.orderCount())
	s.Equal(int64(4), s.variantStock(variantID))
}

func (s *IntegrationTestSuite) TestPlaceOrder_ExpiredCoupon() {
	productID, variantID := s.seedProduct("Linen Shirt", 5, 2999)

	expired := time.Now().Add(-24 * time.Hour)
	s.seedCoupon(domain.Coupon{
		Code:          "OLD",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		IsActive:      true,
		ValidUntil:    &expired,
	})

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "OLD")
	s.Require().ErrorIs(err, domain.ErrCouponExpired)
	s.Equal(int64(0), s.orderCount())
}

func (s *IntegrationTestSuite) TestPlaceOrder_EmptyCart() {
	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), nil, "")
	s.Require().ErrorIs(err, service.ErrEmptyCart)
}

func (s *IntegrationTestSuite) TestPlaceOrder_MultiLineAtomicity() {
	productAID, variantAID := s.seedProduct("Linen Shirt", 10, 2999)
	productBID, variantBID := s.seedProduct("Wool Scarf", 1, 1500)

	_, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productAID, VariantID: variantAID, Quantity: 2, Price: 2999},
		{ProductID: productBID, VariantID: variantBID, Quantity: 3, Price: 1500},
	}, "")
	s.Require().ErrorIs(err, repository.ErrInsufficientStock)

	// the first line's decrement rolled back with the rest
	s.Equal(int64(0), s.orderCount())
	s.Equal(int64(10), s.variantStock(variantAID))
	s.Equal(int64(1), s.variantStock(variantBID))
}

func (s *IntegrationTestSuite) TestPlaceOrder_ConcurrentLastUnit() {
	productID, variantID := s.seedProduct("Linen Shirt", 1, 2999)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, errs[i] = s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
				{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
			}, "")
		}(i)
	}

	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			lost++
		}
	}

	s.Equal(1, won, "exactly one order wins the last unit")
	s.Equal(1, lost)
	s.Equal(int64(1), s.orderCount())
	s.Equal(int64(0), s.variantStock(variantID))
}
