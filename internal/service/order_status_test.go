package service_test

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
)

func (s *IntegrationTestSuite) placeTestOrder() (*domain.Order, int64) {
	productID, variantID := s.seedProduct("Linen Shirt", 5, 2999)

	order, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "")
	s.Require().NoError(err)

	return order, variantID
}

func (s *IntegrationTestSuite) orderStatus(orderID int64) string {
	var status string
	err := s.DbPool.QueryRow(s.Ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	s.Require().NoError(err)

	return status
}

func (s *IntegrationTestSuite) TestUpdateStatus_FullLifecycle() {
	order, _ := s.placeTestOrder()

	s.Require().NoError(s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusShipped))
	s.Equal("shipped", s.orderStatus(order.ID))

	s.Require().NoError(s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusDelivered))
	s.Equal("delivered", s.orderStatus(order.ID))
}

func (s *IntegrationTestSuite) TestUpdateStatus_InvalidTransitions() {
	order, _ := s.placeTestOrder()

	err := s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusDelivered)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	s.Equal("pending", s.orderStatus(order.ID))

	s.Require().NoError(s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusCancelled))

	// cancelled is terminal
	err = s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusShipped)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	s.Equal("cancelled", s.orderStatus(order.ID))
}

func (s *IntegrationTestSuite) TestUpdateStatus_CancelDoesNotRestock() {
	order, variantID := s.placeTestOrder()
	s.Equal(int64(4), s.variantStock(variantID))

	s.Require().NoError(s.OrderService.UpdateStatus(s.Ctx, order.ID, domain.OrderStatusCancelled))

	s.Equal(int64(4), s.variantStock(variantID))
}

func (s *IntegrationTestSuite) TestUpdateStatus_OrderNotFound() {
	err := s.OrderService.UpdateStatus(s.Ctx, 424242, domain.OrderStatusShipped)
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *IntegrationTestSuite) TestGetByPublicID() {
	order, _ := s.placeTestOrder()

	found, err := s.OrderService.GetByPublicID(s.Ctx, order.PublicID)
	s.Require().NoError(err)

	s.Equal(order.ID, found.ID)
	s.Equal(order.Total, found.Total)
	s.Len(found.Items, 1)
	s.Equal("Linen Shirt", found.Items[0].Name)
}
